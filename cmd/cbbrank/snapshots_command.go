package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

func newSnapshotsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"status"},
		Short:   "Show stored rank snapshots and the review queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeRequired, func(r *pipeline.Runner) error {
				status, err := r.Status(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(status.Snapshots) == 0 {
					fmt.Fprintln(out, "No snapshots stored; run cbbrank ingest")
				} else {
					fmt.Fprintln(out, renderTable(
						[]string{"Source", "Snapshot", "Rows", "Ingest"},
						snapshotRows(status.Snapshots),
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
					))
				}
				if len(status.LatestRuns) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"Source", "Last Ingest", "Status", "Started", "Took", "Error"},
						runRows(status.LatestRuns),
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
					))
				}
				queued := false
				for _, s := range []store.Status{store.StatusAuto, store.StatusReview, store.StatusAccepted, store.StatusRejected, store.StatusApplied} {
					if n := status.Suggestions[s]; n > 0 {
						fmt.Fprintf(out, "Suggestions %s: %d\n", s, n)
						queued = true
					}
				}
				if !queued {
					fmt.Fprintln(out, "Review queue is empty")
				}
				return nil
			})
		},
	}
}

func snapshotRows(snaps []store.SnapshotInfo) [][]string {
	rows := make([][]string, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, []string{s.Source, s.Snapshot, strconv.Itoa(s.Rows), s.IngestID})
	}
	return rows
}

func runRows(runs []store.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		took := ""
		if d := run.Duration(); d > 0 {
			took = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			run.Source,
			run.ID,
			string(run.Status),
			run.StartedAt.Format("2006-01-02 15:04:05"),
			took,
			run.Error,
		})
	}
	return rows
}
