package orchestrator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/viant/brigade/model"
)

// RenderStatus writes a pool report for the supplied snapshots
func RenderStatus(w io.Writer, snapshots []*model.Snapshot) error {
	out := bufio.NewWriter(w)
	fmt.Fprintln(out, "=== WORKERS STATUS ===")
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "No active workers.")
		return out.Flush()
	}
	fmt.Fprintf(out, "Total workers: %d\n", len(snapshots))
	for _, snapshot := range snapshots {
		fmt.Fprintf(out, "\nWorker #%d", snapshot.WorkerID)
		if snapshot.Fallback {
			fmt.Fprint(out, " (no response)")
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Active: %d/%d\n", snapshot.ActiveCount, snapshot.TotalCapacity)
		fmt.Fprintf(out, "  Queue:  %d/%d\n", snapshot.QueueLength, snapshot.MaxCapacity)
		fmt.Fprintf(out, "  Stock:  %v\n", snapshot.Stock)
	}
	return out.Flush()
}
