package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
)

func newStandingsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Build the composite team standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeOptional, func(r *pipeline.Runner) error {
				outcome, err := r.Standings(cmd.Context())
				if err != nil {
					return err
				}
				table := outcome.Table
				rows := table.Rows
				if limit > 0 && len(rows) > limit {
					rows = rows[:limit]
				}
				if jsonOutput {
					records := make([]map[string]string, 0, len(rows))
					for _, row := range rows {
						rec := make(map[string]string, len(table.Header))
						for i, col := range table.Header {
							if i < len(row) {
								rec[col] = row[i]
							}
						}
						records = append(records, rec)
					}
					return writeJSON(cmd, map[string]any{
						"run_id":         outcome.RunID,
						"output":         outcome.OutputFile,
						"teams":          len(table.Rows),
						"failed_sources": outcome.Failed,
						"rows":           records,
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wrote %d teams to %s\n", len(table.Rows), outcome.OutputFile)
				fmt.Fprintln(out, renderTabular(table, limit, "team"))
				for _, tag := range outcome.Failed {
					fmt.Fprintf(out, "Source %s was unavailable and is shown as %s\n", tag, r.Config().Merge.Unrated)
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Rows to print (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}
