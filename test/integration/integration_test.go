//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core"
	"github.com/agenthands/genescan/internal/core/extraction"
	"github.com/agenthands/genescan/internal/core/prompt"
	"github.com/agenthands/genescan/internal/llm"
	"github.com/agenthands/genescan/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGenes = []string{
	"TP53", "BRCA1", "APOE", "INS", "MYC", "EGFR", "PSEN1", "TTN", "LDLR", "KRAS",
	"PTEN", "APP", "MAPT", "TCF7L2", "PCSK9", "MYH7", "SCN5A", "GCK", "HNF1A", "CDKN2A",
}

// localConfig points at a local Ollama server; tests skip unless
// OLLAMA_BASE_URL is set.
func localConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	cfg := config.Default()
	cfg.LocalDefaults()
	cfg.Backend.BaseURL = baseURL
	if m := os.Getenv("LLM_MODEL"); m != "" {
		cfg.Backend.Model = m
	}
	cfg.Pipeline.SampleCount = 6
	cfg.Pipeline.BatchSize = 3
	cfg.Pipeline.MinCatalog = len(testGenes)
	cfg.Pipeline.MissingPolicy = config.PolicyLenient
	return cfg
}

func newPipeline(t *testing.T, cfg *config.Config, st *store.Store) *core.Pipeline {
	t.Helper()
	backend, err := llm.NewBackend(context.Background(), cfg.Backend)
	require.NoError(t, err)
	builder, err := prompt.NewBuilder(cfg.Prompts)
	require.NoError(t, err)
	mapper, err := extraction.NewMapper(cfg.Pipeline.MissingPolicy)
	require.NoError(t, err)

	invoker := llm.NewInvoker(backend, llm.RetryPolicyFrom(cfg.Retry))
	return core.NewPipeline(cfg, testGenes, extraction.NewExtractor(invoker, builder, mapper), st)
}

func TestFullFlow(t *testing.T) {
	cfg := localConfig(t)
	st := store.New(afero.NewMemMapFs(), "outputs")

	report, err := newPipeline(t, cfg, st).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.Sample, report.Result.Genes())
	assert.Equal(t, 6, report.Summary.TotalGenes)
	assert.Equal(t, 2, report.Summary.Latency.Calls)

	for _, rec := range report.Result.Records {
		for _, p := range rec.Partners {
			assert.Contains(t, report.Sample, p)
		}
	}

	reader, err := st.Open(store.RunDirName("", cfg.Backend.Model))
	require.NoError(t, err)
	raw, err := reader.RawResponses()
	require.NoError(t, err)
	assert.Len(t, raw, 2)
	t.Logf("Summary:\n%s", report.Summary.Markdown())
}
