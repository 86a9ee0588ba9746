package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/agenthands/genescan/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultConfigPath = "config/config.toml"

var (
	verbose    bool
	configPath string
	local      bool

	// Overrides for the loaded config. Only flags the user set are applied.
	provider  string
	modelName string
	count     int
	seed      int64
	batchSize int
	policy    string
	output    string
	runName   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "genescan",
	Short: "Classify sampled human genes against disease categories with an LLM",
	Long: `genescan samples genes from the HGNC approved-symbol catalog, asks a language
model which of cancer, heart disease, diabetes and dementia each gene is
associated with, and which other sampled genes it interacts with.

Runs are written under the output root, one directory per run, and can be
compared against a baseline run afterwards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load .env: %w", err)
		}

		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg = zap.NewDevelopmentConfig()
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file, TOML or YAML (default "+defaultConfigPath+" if present)")
	rootCmd.PersistentFlags().BoolVar(&local, "local", false, "Use the local Ollama backend defaults")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Backend provider: openai, ollama, claude, gemini")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model identifier")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Runs root directory")

	runCmd.Flags().IntVarP(&count, "count", "n", 0, "Number of genes to sample")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Sampling seed")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Genes per backend call")
	runCmd.Flags().StringVar(&policy, "policy", "", "Missing-gene policy: strict or lenient")
	runCmd.Flags().StringVar(&runName, "name", "", "Run directory name (default derived from the model)")
	runCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace a completed run with the same name")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, then the environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := readConfig(afero.NewOsFs(), configPath)
	if err != nil {
		return nil, err
	}
	if local {
		cfg.LocalDefaults()
	}
	cfg.ApplyEnv()
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readConfig(fs afero.Fs, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if ok, _ := afero.Exists(fs, defaultConfigPath); ok {
		return config.Load(defaultConfigPath)
	}
	return config.Default(), nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("provider") {
		cfg.Backend.Provider = provider
	}
	if changed("model") {
		cfg.Backend.Model = modelName
	}
	if changed("output") {
		cfg.Pipeline.OutputRoot = output
	}
	if changed("count") {
		cfg.Pipeline.SampleCount = count
	}
	if changed("seed") {
		cfg.Pipeline.Seed = seed
	}
	if changed("batch-size") {
		cfg.Pipeline.BatchSize = batchSize
	}
	if changed("policy") {
		cfg.Pipeline.MissingPolicy = policy
	}
	if changed("name") {
		cfg.Pipeline.RunName = runName
	}
}
