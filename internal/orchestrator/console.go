package orchestrator

import (
	"fmt"
	"io"
	"sync"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/integrate"
	"github.com/Elenmith/TPLProgram/internal/tui/prompt"
	"github.com/Elenmith/TPLProgram/internal/tui/styles"
)

// Compile-time interface check
var _ integrate.Reporter = (*ConsoleReporter)(nil)

// ConsoleReporter prints one line per partition and the run summary.
// Lines are written whole, so output from concurrent partitions never
// interleaves.
type ConsoleReporter struct {
	w      io.Writer
	styled bool
	mu     sync.Mutex
}

// NewConsoleReporter writes to w, colored when styled is true.
func NewConsoleReporter(w io.Writer, styled bool) *ConsoleReporter {
	return &ConsoleReporter{w: w, styled: styled}
}

// Report prints the partition outcome.
func (c *ConsoleReporter) Report(p integrate.PartialResult) {
	var line string
	switch p.Status {
	case integrate.PartitionMerged:
		line = fmt.Sprintf("Partition %d: Calculated range %d to %d -> Partial result: %v",
			p.Partition.Index, p.Partition.Lo, p.Partition.Hi, p.Area)
	case integrate.PartitionFailed:
		line = fmt.Sprintf("Partition %d: Calculated range %d to %d -> failed: %v",
			p.Partition.Index, p.Partition.Lo, p.Partition.Hi, p.Err)
	default:
		line = fmt.Sprintf("Partition %d: %s", p.Partition.Index, p.Status)
	}
	c.println(p.Status.String(), line)
}

// Summary prints the joined outcome of a run: the total, or why there is
// none, and where the plot went.
func (c *ConsoleReporter) Summary(out Outcome) {
	switch {
	case out.Err == nil:
		total := fmt.Sprintf("%v", out.Result.Total)
		if c.styled {
			total = styles.ResultValue.Render(total)
		}
		c.println("", "Total integration result: "+total)
	case errors.IsInvalidRange(out.Err):
		c.println("failed", "Invalid data")
	default:
		c.println("failed", fmt.Sprintf("Integration failed after merging %d of %d partitions (partial total %v): %v",
			out.Result.Merged(), out.Result.Partitions, out.Result.Total, out.Err))
		for _, ev := range errors.EvaluationErrors(out.Err) {
			c.println("failed", "  - "+ev.Error())
		}
	}

	switch {
	case out.PlotPath != "" && out.PlotErr == nil:
		c.println("completed", "Plot saved to "+out.PlotPath)
	case out.PlotPath != "":
		c.println("skipped", fmt.Sprintf("Plot saved to %s, but: %v", out.PlotPath, out.PlotErr))
	case errors.Is(out.PlotErr, prompt.ErrCanceled):
		c.println("skipped", "Plot skipped")
	case errors.IsUserFacing(out.PlotErr):
		c.println("skipped", fmt.Sprintf("Plot not saved: %v", out.PlotErr))
	case out.PlotErr != nil:
		c.println("skipped", "Plot not saved (see the log for details)")
	}
}

func (c *ConsoleReporter) println(status, line string) {
	if c.styled && status != "" {
		line = styles.Status(status, line)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, line)
}
