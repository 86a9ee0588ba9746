package main

import (
	"fmt"
	"io"

	"github.com/agenthands/genescan/internal/core/relay"
	"github.com/agenthands/genescan/internal/llm"
	"github.com/agenthands/genescan/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	relayModels []string
	promptFile  string
)

var relayCmd = &cobra.Command{
	Use:   "relay [PROMPT...]",
	Short: "Pass prompts through a chain of models, each paraphrasing the last",
	Long: `Every prompt is paraphrased by the first model, that output by the second,
and so on. Writes telephone_runs.json and telephone_runs.md under the
output root. Prompts come from the arguments, or one per line from
--prompt-file; otherwise a built-in set of ten prompts is used.`,
	RunE: runRelay,
}

func init() {
	relayCmd.Flags().StringSliceVar(&relayModels, "models", nil, "Models in relay order (default from [relay] models)")
	relayCmd.Flags().StringVar(&promptFile, "prompt-file", "", "File with one prompt per line")
}

func runRelay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	prompts, err := relayPrompts(afero.NewOsFs(), promptFile, args)
	if err != nil {
		return err
	}

	models := cfg.Relay.Models
	if len(relayModels) > 0 {
		models = relayModels
	}

	stages := make([]relay.Stage, 0, len(models))
	for _, m := range models {
		bc := cfg.Backend
		bc.Model = m
		backend, err := llm.NewBackend(ctx, bc)
		if err != nil {
			return fmt.Errorf("failed to initialize backend for %s: %w", m, err)
		}
		if c, ok := backend.(io.Closer); ok {
			defer c.Close()
		}
		stages = append(stages, relay.Stage{Model: m, LLM: llm.NewInvoker(backend, llm.RetryPolicyFrom(cfg.Retry))})
	}

	r, err := relay.New(cfg.Relay.Prompt, stages...)
	if err != nil {
		return err
	}

	runs, err := r.Run(ctx, prompts)
	if err != nil {
		return err
	}

	st := store.New(afero.NewOsFs(), cfg.Pipeline.OutputRoot)
	if err := relay.Save(st, runs); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d relay runs under %s\n", len(runs), st.Root())
	return nil
}

func relayPrompts(fs afero.Fs, path string, args []string) ([]string, error) {
	if len(args) > 0 && path != "" {
		return nil, fmt.Errorf("give prompts as arguments or with --prompt-file, not both")
	}
	if len(args) > 0 {
		return args, nil
	}
	if path != "" {
		return relay.LoadPrompts(fs, path)
	}
	return relay.DefaultPrompts, nil
}
