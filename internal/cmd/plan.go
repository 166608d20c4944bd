package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Elenmith/TPLProgram/internal/config"
	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/integrate"
	"github.com/Elenmith/TPLProgram/internal/tui/styles"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how the intervals are split into partitions",
	Long: `Plan prints the partition table for an integration without evaluating
anything: each partition's interval indices and the sub-range of x it covers.
The last partition absorbs the remainder when the interval count does not
divide evenly.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, planFlagKeys)
	},
	RunE: runPlan,
}

var planFlagKeys = map[string]string{
	"start":      "integration.start",
	"end":        "integration.end",
	"intervals":  "integration.intervals",
	"partitions": "integration.partitions",
}

func init() {
	defaults := config.Default()
	f := planCmd.Flags()

	f.Float64("start", defaults.Integration.Start, "lower bound of the range")
	f.Float64("end", defaults.Integration.End, "upper bound of the range")
	f.IntP("intervals", "n", defaults.Integration.Intervals, "total number of trapezoids")
	f.IntP("partitions", "p", defaults.Integration.Partitions, "number of partitions")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}
	in := cfg.Integration

	parts, err := integrate.PlanAll(in.Intervals, in.Partitions)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styled := isTerminal(out)
	width := in.End - in.Start
	step := width / float64(in.Intervals)

	title := fmt.Sprintf("%d intervals in %d partitions over [%v, %v], step %v",
		in.Intervals, in.Partitions, in.Start, in.End, step)
	if styled {
		title = styles.Title.Render(title)
	}
	fmt.Fprintln(out, title)
	fmt.Fprintln(out)

	printPlanRow(out, styled, true, "Partition", "Intervals", "Width", "From", "To")
	for _, p := range parts {
		printPlanRow(out, styled, false,
			fmt.Sprint(p.Index),
			p.String(),
			fmt.Sprint(p.Width()),
			fmt.Sprint(in.Start+float64(p.Lo)*width/float64(in.Intervals)),
			fmt.Sprint(in.Start+float64(p.Hi)*width/float64(in.Intervals)),
		)
	}
	return nil
}

func printPlanRow(w io.Writer, styled, header bool, cells ...string) {
	line := fmt.Sprintf("%-10s %-12s %-6s %-14s %-14s", cells[0], cells[1], cells[2], cells[3], cells[4])
	if styled {
		if header {
			line = styles.TableHeader.Render(line)
		} else {
			line = styles.TableCell.Render(line)
		}
	}
	fmt.Fprintln(w, line)
}
