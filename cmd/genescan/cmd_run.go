package main

import (
	"fmt"
	"io"

	"github.com/agenthands/genescan/internal/core"
	"github.com/agenthands/genescan/internal/core/catalog"
	"github.com/agenthands/genescan/internal/core/extraction"
	"github.com/agenthands/genescan/internal/core/graph"
	"github.com/agenthands/genescan/internal/core/prompt"
	"github.com/agenthands/genescan/internal/driver"
	"github.com/agenthands/genescan/internal/llm"
	"github.com/agenthands/genescan/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var overwrite bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample genes and classify them with the configured backend",
	Long: `Downloads the gene catalog if it is not cached, draws a seeded sample,
sends it to the backend in batches and writes the run directory:
selected genes, raw and parsed responses, ordered results, summary and
spot audit. When [graph] uri is set the result is also exported to Memgraph.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	path, err := catalog.NewFetcher().Ensure(ctx, fs, cfg.Pipeline.CatalogPath, cfg.Pipeline.CatalogURL)
	if err != nil {
		return err
	}
	genes, err := catalog.Load(fs, path, cfg.Pipeline.MinCatalog)
	if err != nil {
		return err
	}

	backend, err := llm.NewBackend(ctx, cfg.Backend)
	if err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}

	builder, err := prompt.NewBuilder(cfg.Prompts)
	if err != nil {
		return err
	}
	mapper, err := extraction.NewMapper(cfg.Pipeline.MissingPolicy)
	if err != nil {
		return err
	}
	extractor := extraction.NewExtractor(llm.NewInvoker(backend, llm.RetryPolicyFrom(cfg.Retry)), builder, mapper)

	p := core.NewPipeline(cfg, genes, extractor, store.New(fs, cfg.Pipeline.OutputRoot))
	p.Overwrite = overwrite

	if cfg.Graph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password)
		if err != nil {
			return fmt.Errorf("failed to connect to memgraph: %w", err)
		}
		defer d.Close(ctx)
		p.Exporter = graph.NewExporter(d)
	}

	report, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), report.Summary.Markdown())
	fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s written to %s\n", report.RunID, report.Dir)
	return nil
}
