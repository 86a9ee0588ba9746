// Package relay passes a message through a chain of models, each one
// paraphrasing the previous model's output.
package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/genescan/internal/llm"
	"github.com/agenthands/genescan/internal/store"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var DefaultPrompts = []string{
	"Explain how photosynthesis powers life on Earth and why it matters to humans.",
	"Summarize the plot of Shakespeare's Hamlet in three sentences for a teenager.",
	"Describe a futuristic transportation system that solves urban congestion.",
	"Outline a day in the life of a Martian botanist growing crops in a habitat dome.",
	"Teach me the basics of quantum entanglement using a cooking metaphor.",
	"Imagine an AI assistant helping emergency responders during a hurricane.",
	"Propose a community project that reduces food waste and supports shelters.",
	"Explain CRISPR gene editing to someone who has never heard of DNA.",
	"Describe the evolution of jazz music from its roots to modern interpretations.",
	"Persuade a city council to invest in green rooftop gardens for public buildings.",
}

// LoadPrompts reads one prompt per non-blank line of path.
func LoadPrompts(fs afero.Fs, path string) ([]string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}
	var prompts []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			prompts = append(prompts, line)
		}
	}
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts found in %s", path)
	}
	return prompts, nil
}

type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (*llm.Completion, error)
}

// Stage is one model in the chain.
type Stage struct {
	Model string
	LLM   Invoker
}

type StageResult struct {
	Model          string  `json:"model"`
	LatencySeconds float64 `json:"latency_sec"`
	Output         string  `json:"output_text"`
}

type Run struct {
	Input       string        `json:"input_prompt"`
	Stages      []StageResult `json:"stages"`
	FinalOutput string        `json:"final_output"`
}

type Relay struct {
	Stages []Stage
	// Template takes one %s verb for the message to paraphrase.
	Template string
}

func New(template string, stages ...Stage) (*Relay, error) {
	if n := strings.Count(template, "%s"); n != 1 {
		return nil, fmt.Errorf("relay prompt template needs 1 %%s verb, found %d", n)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("relay needs at least one model")
	}
	return &Relay{Stages: stages, Template: template}, nil
}

// Run sends every prompt through all stages in order. The first failing
// stage aborts the whole relay.
func (r *Relay) Run(ctx context.Context, prompts []string) ([]Run, error) {
	runs := make([]Run, 0, len(prompts))
	for i, input := range prompts {
		log := zap.L().With(zap.Int("prompt", i+1), zap.Int("of", len(prompts)))
		log.Info("starting relay")

		run := Run{Input: input, Stages: make([]StageResult, 0, len(r.Stages))}
		current := input
		for j, stage := range r.Stages {
			completion, err := stage.LLM.Invoke(ctx, []llm.Message{
				{Role: llm.RoleUser, Content: fmt.Sprintf(r.Template, current)},
			})
			if err != nil {
				return nil, fmt.Errorf("prompt %d stage %d (%s): %w", i+1, j+1, stage.Model, err)
			}
			current = strings.TrimSpace(completion.Text)
			run.Stages = append(run.Stages, StageResult{
				Model:          stage.Model,
				LatencySeconds: completion.Latency.Seconds(),
				Output:         current,
			})
			log.Info("stage returned",
				zap.Int("stage", j+1),
				zap.String("model", stage.Model),
				zap.Int("chars", len(current)),
				zap.Duration("latency", completion.Latency))
		}
		run.FinalOutput = current
		runs = append(runs, run)
	}
	return runs, nil
}

func Markdown(runs []Run) string {
	var sb strings.Builder
	sb.WriteString("# Game of Telephone Results\n\n")
	for i, run := range runs {
		fmt.Fprintf(&sb, "## Prompt %d\n", i+1)
		fmt.Fprintf(&sb, "**Input:** %s\n\n", run.Input)
		for j, st := range run.Stages {
			fmt.Fprintf(&sb, "- **Stage %d (%s | %.2fs):** %s\n", j+1, st.Model, st.LatencySeconds, st.Output)
		}
		fmt.Fprintf(&sb, "\n**Final Output:** %s\n\n", run.FinalOutput)
	}
	return sb.String()
}

// Save writes telephone_runs.json and telephone_runs.md under the store root.
func Save(st *store.Store, runs []Run) error {
	if err := st.WriteJSON(store.RelayJSONFile, runs); err != nil {
		return err
	}
	return st.WriteFile(store.RelayMDFile, []byte(Markdown(runs)))
}
