package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/diagnose"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
)

func newDiagnoseCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Suggest aliases for unresolved names and report collisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeOptional, func(r *pipeline.Runner) error {
				outcome, err := r.Diagnose(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, diagnoseJSON(outcome))
				}
				out := cmd.OutOrStdout()
				report := outcome.Report
				auto := len(report.Auto())
				fmt.Fprintf(out, "Suggestions: %d (%d auto, %d for review) -> %s\n",
					len(report.Suggestions), auto, len(report.Suggestions)-auto, outcome.SuggestionsFile)
				fmt.Fprintf(out, "Collisions: %d -> %s\n", len(report.Collisions), outcome.CollisionsFile)
				if outcome.Queued != nil {
					fmt.Fprintf(out, "Review queue: %d new, %d updated, %d already decided\n",
						outcome.Queued.Inserted, outcome.Queued.Updated, outcome.Queued.Kept)
				}
				if len(report.Suggestions) > 0 {
					fmt.Fprintln(out, renderTable(
						[]string{"Source", "Raw Name", "Candidate", "Score", "Status", "Reason"},
						suggestionRows(report.Suggestions),
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
					))
				}
				sources := make([]string, 0, len(report.Unmatched))
				for source := range report.Unmatched {
					sources = append(sources, source)
				}
				sort.Strings(sources)
				for _, source := range sources {
					fmt.Fprintf(out, "No candidate for %d %s names\n", len(report.Unmatched[source]), source)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func suggestionRows(suggestions []diagnose.Suggestion) [][]string {
	rows := make([][]string, 0, len(suggestions))
	for _, sg := range suggestions {
		rows = append(rows, []string{
			sg.Source,
			sg.Raw,
			sg.Candidate,
			strconv.FormatFloat(sg.Score, 'f', 3, 64),
			string(sg.Status),
			sg.Reason,
		})
	}
	return rows
}

func diagnoseJSON(outcome *pipeline.DiagnoseOutcome) map[string]any {
	type jsonSuggestion struct {
		Source    string  `json:"source"`
		Raw       string  `json:"raw_name"`
		Cleaned   string  `json:"cleaned"`
		Candidate string  `json:"candidate"`
		Score     float64 `json:"score"`
		Status    string  `json:"status"`
		Reason    string  `json:"reason,omitempty"`
	}
	type jsonCollision struct {
		Source string `json:"source"`
		Key    string `json:"key"`
		RawA   string `json:"raw_a"`
		RawB   string `json:"raw_b"`
	}
	report := outcome.Report
	suggestions := make([]jsonSuggestion, 0, len(report.Suggestions))
	for _, sg := range report.Suggestions {
		suggestions = append(suggestions, jsonSuggestion{
			Source:    sg.Source,
			Raw:       sg.Raw,
			Cleaned:   sg.Cleaned,
			Candidate: sg.Candidate,
			Score:     sg.Score,
			Status:    string(sg.Status),
			Reason:    sg.Reason,
		})
	}
	collisions := make([]jsonCollision, 0, len(report.Collisions))
	for _, c := range report.Collisions {
		collisions = append(collisions, jsonCollision{Source: c.Source, Key: c.Key, RawA: c.RawA, RawB: c.RawB})
	}
	return map[string]any{
		"run_id":      outcome.RunID,
		"suggestions": suggestions,
		"collisions":  collisions,
		"unmatched":   report.Unmatched,
	}
}
