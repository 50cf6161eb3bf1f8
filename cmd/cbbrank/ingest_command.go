package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ingest [source...]",
		Short: "Parse raw rank CSVs into the snapshot store",
		Long: "Parse each source's raw CSV and replace its stored snapshot. With no\n" +
			"arguments every configured source is ingested. A source that fails\n" +
			"keeps its previous snapshot.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeRequired, func(r *pipeline.Runner) error {
				report, err := r.Ingest(cmd.Context(), args...)
				if err != nil {
					return err
				}
				if jsonOutput {
					if err := writeJSON(cmd, ingestJSON(report)); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"Source", "Status", "Rows", "Dropped", "Stale", "Snapshot", "Error"},
						ingestRows(report),
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
					))
				}
				if failed := report.Failed(); failed > 0 {
					return fmt.Errorf("%w: %d of %d sources failed to ingest", errRunFailed, failed, len(report.Results))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func ingestRows(report *pipeline.IngestReport) [][]string {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		if res.Err != nil {
			rows = append(rows, []string{res.Source, "failed", "", "", "", "", res.Err.Error()})
			continue
		}
		run := res.Run
		rows = append(rows, []string{
			res.Source,
			string(run.Status),
			strconv.Itoa(run.Rows),
			strconv.Itoa(run.Dropped),
			strconv.Itoa(run.Stale),
			run.Snapshot,
			"",
		})
	}
	return rows
}

func ingestJSON(report *pipeline.IngestReport) map[string]any {
	type jsonResult struct {
		Source   string `json:"source"`
		RunID    string `json:"ingest_id,omitempty"`
		Status   string `json:"status"`
		Rows     int    `json:"rows"`
		Dropped  int    `json:"dropped"`
		Stale    int    `json:"stale"`
		Snapshot string `json:"snapshot,omitempty"`
		Error    string `json:"error,omitempty"`
	}
	results := make([]jsonResult, 0, len(report.Results))
	for _, res := range report.Results {
		item := jsonResult{Source: res.Source, Status: "failed"}
		if res.Run != nil {
			item.RunID = res.Run.ID
		}
		if res.Err != nil {
			item.Error = res.Err.Error()
		} else if res.Run != nil {
			item.Status = string(res.Run.Status)
			item.Rows = res.Run.Rows
			item.Dropped = res.Run.Dropped
			item.Stale = res.Run.Stale
			item.Snapshot = res.Run.Snapshot
		}
		results = append(results, item)
	}
	return map[string]any{"run_id": report.RunID, "sources": results}
}
