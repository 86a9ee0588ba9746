package config

import "time"

const (
	DefaultCatalogURL = "https://www.genenames.org/cgi-bin/download/custom?" +
		"col=gd_app_sym&status=Approved&hgnc_dbtag=on&order_by=gd_app_sym_sort&format=text&submit=submit"

	DefaultSystemPrompt = "You translate biomedical questions into accurate, concise JSON answers. " +
		"Do not include markdown fences or prose outside the JSON object."

	DefaultUserPrompt = `You are a biomedical research assistant. Evaluate the following human genes: %s.
Other genes in this study (valid interaction partners): %s.
For each gene, respond **only** with JSON following exactly this schema:
%s

Guidelines:
- Limit evidence strings to 2 sentences.
- Use publicly known high-level biology knowledge (do not fabricate).
- If no solid evidence exists, set ` + "`associated`" + ` to false and explain briefly.
- For interactions, only list other genes from the provided lists.
- Return valid JSON. No markdown, no commentary.`

	DefaultRelayPrompt = "Paraphrase the following message. Keep the core meaning but change tone, word choice, " +
		"and sentence structure. Limit the response to 200 words. Message:\n\n%s"
)

// Default returns the configuration used when no file overrides a field.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Provider:    "openai",
			Model:       "meta-llama/Meta-Llama-3.1-70B-Instruct",
			BaseURL:     "https://inference-api.alcf.anl.gov/resource_server/sophia/vllm/v1",
			Temperature: 0.2,
			MaxTokens:   4000,
		},
		Retry: RetryConfig{
			MaxRetries:  2,
			BackoffStep: Duration{1500 * time.Millisecond},
			Timeout:     Duration{180 * time.Second},
		},
		Pipeline: PipelineConfig{
			CatalogPath:          "data/approved_gene_symbols.txt",
			CatalogURL:           DefaultCatalogURL,
			MinCatalog:           50,
			SampleCount:          50,
			Seed:                 42,
			BatchSize:            10,
			MissingPolicy:        PolicyStrict,
			OutputRoot:           "outputs",
			SpotAudit:            []string{"TP53", "BRCA1"},
			ManualMinutesPerGene: 4.0,
			ClusterDetector:      DetectorComponents,
		},
		Prompts: Prompts{
			System: DefaultSystemPrompt,
			User:   DefaultUserPrompt,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Relay: RelayConfig{
			Models: []string{
				"meta-llama/Meta-Llama-3.1-8B-Instruct",
				"openai/gpt-oss-20b",
				"google/gemma-3-27b-it",
				"meta-llama/Meta-Llama-3.1-70B-Instruct",
			},
			Prompt: DefaultRelayPrompt,
		},
	}
}

// LocalDefaults switches a config to the local Ollama backend settings.
func (c *Config) LocalDefaults() {
	c.Backend.Provider = "ollama"
	c.Backend.Model = "llama3.2:3b"
	c.Backend.BaseURL = "http://localhost:11434"
	c.Retry.Timeout = Duration{240 * time.Second}
	c.Pipeline.BatchSize = 5
}
