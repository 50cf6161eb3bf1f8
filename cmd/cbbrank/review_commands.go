package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and decide queued alias suggestions",
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewDecideCommand(ctx, "accept", store.StatusAccepted))
	reviewCmd.AddCommand(newReviewDecideCommand(ctx, "reject", store.StatusRejected))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	var source string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := store.Filter{Source: strings.TrimSpace(source)}
			for _, value := range statuses {
				status, err := store.ParseStatus(value)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			return ctx.withRunner(storeRequired, func(r *pipeline.Runner) error {
				items, err := r.Review(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, suggestionsJSON(items))
				}
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Review queue is empty")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Source", "Raw Name", "Candidate", "Score", "Status", "Reason", "Updated"},
					storedSuggestionRows(items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Filter by status (auto, review, accepted, rejected, applied)")
	cmd.Flags().StringVar(&source, "source", "", "Filter by source tag")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newReviewDecideCommand(ctx *commandContext, use string, status store.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>...",
		Short: fmt.Sprintf("Mark suggestions %s", status),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parsePositiveIDs(args)
			if err != nil {
				return err
			}
			return ctx.withRunner(storeRequired, func(r *pipeline.Runner) error {
				decided, err := r.Decide(cmd.Context(), status, ids...)
				out := cmd.OutOrStdout()
				for _, sg := range decided {
					fmt.Fprintf(out, "Suggestion %d %s: %s -> %s\n", sg.ID, sg.Status, sg.Raw, sg.Candidate)
				}
				return err
			})
		},
	}
}

func parsePositiveIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid suggestion id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func storedSuggestionRows(items []store.Suggestion) [][]string {
	rows := make([][]string, 0, len(items))
	for _, sg := range items {
		rows = append(rows, []string{
			strconv.FormatInt(sg.ID, 10),
			sg.Source,
			sg.Raw,
			sg.Candidate,
			strconv.FormatFloat(sg.Score, 'f', 3, 64),
			string(sg.Status),
			sg.Reason,
			sg.UpdatedAt.Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func suggestionsJSON(items []store.Suggestion) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, sg := range items {
		out = append(out, map[string]any{
			"id":         sg.ID,
			"source":     sg.Source,
			"raw_name":   sg.Raw,
			"cleaned":    sg.Cleaned,
			"candidate":  sg.Candidate,
			"score":      sg.Score,
			"status":     string(sg.Status),
			"reason":     sg.Reason,
			"created_at": sg.CreatedAt,
			"updated_at": sg.UpdatedAt,
		})
	}
	return out
}
