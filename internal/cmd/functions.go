package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elenmith/TPLProgram/internal/function"
	"github.com/Elenmith/TPLProgram/internal/tui/styles"
)

var functionsMatch string

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions that can be integrated",
	Long: `List the function catalogue. Pass an ID to 'integrate --function'.

Use --match with a glob to filter by ID, e.g.:
  trapint functions --match '*quadratic'`,
	Args: cobra.NoArgs,
	RunE: runFunctions,
}

func init() {
	functionsCmd.Flags().StringVarP(&functionsMatch, "match", "m", "", "only list IDs matching this glob")
	rootCmd.AddCommand(functionsCmd)
}

func runFunctions(cmd *cobra.Command, args []string) error {
	fns, err := function.Match(functionsMatch)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(fns) == 0 {
		fmt.Fprintf(out, "No functions match %q\n", functionsMatch)
		return nil
	}

	styled := isTerminal(out)
	for _, fn := range fns {
		id := fmt.Sprintf("%-18s", fn.ID)
		if fn.ID == function.DefaultID {
			id = fmt.Sprintf("%-18s", fn.ID+" (default)")
		}
		if styled {
			id = styles.HelpKey.Render(id)
		}
		fmt.Fprintf(out, "%s %s\n", id, fn.Name)
	}
	return nil
}
