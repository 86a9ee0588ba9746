package main

import (
	"fmt"

	"github.com/agenthands/genescan/internal/core/reconcile"
	"github.com/agenthands/genescan/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare BASELINE",
	Short: "Compare every completed run under the output root against a baseline run",
	Long: `Counts, per disease category, how often each run agrees with the baseline run,
disagrees with it, or declines to claim an association the baseline made.
Writes comparison.md under the output root.

Example:
  genescan compare meta-llama_Meta-Llama-3.1-70B-Instruct -o outputs`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	st := store.New(afero.NewOsFs(), cfg.Pipeline.OutputRoot)
	named, err := reconcile.WriteReport(st, args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), reconcile.Markdown(args[0], named))
	return nil
}
