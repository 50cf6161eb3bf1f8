package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/merge"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var fromFiles bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Attach every source's rank to the game feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFiles {
				ctx.configValue().Merge.FromFiles = true
			}
			return ctx.withRunner(storeOptional, func(r *pipeline.Runner) error {
				outcome, err := r.Merge(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, mergeJSON(outcome))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Merged %d games into %s\n", outcome.Report.Games, outcome.OutputFile)
				fmt.Fprintln(out, renderTable(
					[]string{"Source", "Origin", "Rows", "Duplicates", "Team Hits", "Opponent Hits", "Unresolved", "Error"},
					mergeRows(outcome),
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				printUnresolved(cmd, "Team", outcome.Report.TeamStats)
				printUnresolved(cmd, "Opponent", outcome.Report.OpponentStats)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fromFiles, "from-files", false, "Read rank tables from raw CSVs instead of stored snapshots")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func mergeRows(outcome *pipeline.MergeOutcome) [][]string {
	rows := make([][]string, 0, len(outcome.Report.Sources))
	for _, src := range outcome.Report.Sources {
		errText := ""
		if src.Err != nil {
			errText = src.Err.Error()
		}
		rows = append(rows, []string{
			merge.Label(merge.Source{Tag: src.Tag, Label: src.Label}),
			outcome.Origins[src.Tag],
			strconv.Itoa(src.Rows),
			strconv.Itoa(src.Duplicates),
			strconv.Itoa(src.TeamMatches),
			strconv.Itoa(src.OpponentMatches),
			strconv.Itoa(len(src.Unresolved)),
			errText,
		})
	}
	return rows
}

func printUnresolved(cmd *cobra.Command, label string, stats *resolver.Stats) {
	if stats == nil || len(stats.Unresolved) == 0 {
		return
	}
	names := make([]string, 0, len(stats.Unresolved))
	for name := range stats.Unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(cmd.OutOrStdout(), "%s names left unresolved (%d): %s\n", label, len(names), strings.Join(names, ", "))
}

func mergeJSON(outcome *pipeline.MergeOutcome) map[string]any {
	type jsonSource struct {
		Tag             string   `json:"tag"`
		Label           string   `json:"label,omitempty"`
		Origin          string   `json:"origin,omitempty"`
		Rows            int      `json:"rows"`
		Dropped         int      `json:"dropped"`
		Duplicates      int      `json:"duplicates"`
		TeamMatches     int      `json:"team_matches"`
		OpponentMatches int      `json:"opponent_matches"`
		Unresolved      []string `json:"unresolved,omitempty"`
		Error           string   `json:"error,omitempty"`
	}
	sources := make([]jsonSource, 0, len(outcome.Report.Sources))
	for _, src := range outcome.Report.Sources {
		item := jsonSource{
			Tag:             src.Tag,
			Label:           src.Label,
			Origin:          outcome.Origins[src.Tag],
			Rows:            src.Rows,
			Dropped:         src.Dropped,
			Duplicates:      src.Duplicates,
			TeamMatches:     src.TeamMatches,
			OpponentMatches: src.OpponentMatches,
			Unresolved:      src.Unresolved,
		}
		if src.Err != nil {
			item.Error = src.Err.Error()
		}
		sources = append(sources, item)
	}
	return map[string]any{
		"run_id":  outcome.RunID,
		"output":  outcome.OutputFile,
		"games":   outcome.Report.Games,
		"sources": sources,
	}
}
