package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
)

func newAliasesCommand(ctx *commandContext) *cobra.Command {
	aliasesCmd := &cobra.Command{
		Use:   "aliases",
		Short: "Maintain the team alias table",
	}

	aliasesCmd.AddCommand(newAliasesApplyCommand(ctx))
	aliasesCmd.AddCommand(newAliasesCheckCommand(ctx))

	return aliasesCmd
}

func newAliasesApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Append auto and accepted suggestions to the alias table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeRequired, func(r *pipeline.Runner) error {
				outcome, err := r.ApplyAliases(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				res := outcome.Result
				fmt.Fprintf(out, "Added %d aliases, %d already present, %d conflicts\n",
					len(res.Added), len(res.Existing), len(res.Collisions))
				for _, e := range res.Added {
					fmt.Fprintf(out, "  + %s [%s] %s\n", e.Canonical, e.Source, e.Variant)
				}
				for _, c := range res.Collisions {
					fmt.Fprintf(out, "  ! %s [%s] stays %s (proposed %s)\n", c.Variant, c.Source, c.Existing, c.Proposed)
				}
				return nil
			})
		},
	}
}

func newAliasesCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report alias rows that conflict or collide",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(storeOptional, func(r *pipeline.Runner) error {
				check, err := r.CheckAliases(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Canonical teams: %d\n", check.Canonicals)
				for _, c := range check.Conflicts {
					fmt.Fprintf(out, "Conflict: %s\n", c.Error())
				}
				for _, c := range check.Collisions {
					fmt.Fprintf(out, "Collision: [%s] %q and %q share key %q\n", c.Source, c.RawA, c.RawB, c.Key)
				}
				if !check.OK() {
					return fmt.Errorf("%w: %d conflicts, %d collisions", errRunFailed, len(check.Conflicts), len(check.Collisions))
				}
				fmt.Fprintln(out, "Alias table consistent")
				return nil
			})
		},
	}
}
