package extraction

import (
	"context"
	"fmt"

	"github.com/agenthands/genescan/internal/core/catalog"
	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/core/normalize"
	"github.com/agenthands/genescan/internal/core/prompt"
	"github.com/agenthands/genescan/internal/llm"
)

// Invoker is the part of llm.Invoker the extractor depends on.
type Invoker interface {
	Invoke(ctx context.Context, messages []llm.Message) (*llm.Completion, error)
}

// Extractor runs one batch through prompt, backend, normalizer and mapper.
// Request and Interpret are separate so callers can persist the raw reply
// before anything can fail on its content.
type Extractor struct {
	LLM     Invoker
	Prompts *prompt.Builder
	Mapper  *Mapper
}

func NewExtractor(invoker Invoker, prompts *prompt.Builder, mapper *Mapper) *Extractor {
	return &Extractor{
		LLM:     invoker,
		Prompts: prompts,
		Mapper:  mapper,
	}
}

// Interpretation is the validated content of one batch reply.
type Interpretation struct {
	Payload  any
	Repaired bool
	Records  []model.ClassificationRecord
}

func (e *Extractor) Request(ctx context.Context, batch catalog.Batch, sample []string) (*llm.Completion, error) {
	completion, err := e.LLM.Invoke(ctx, e.Prompts.Build(batch, sample))
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", batch.Index, err)
	}
	return completion, nil
}

// Parse turns a raw reply into a JSON value without checking its shape.
func (e *Extractor) Parse(raw string, batch catalog.Batch) (*normalize.Result, error) {
	parsed, err := normalize.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", batch.Index, err)
	}
	return parsed, nil
}

// Classify validates a parsed reply and maps it to records for the batch.
func (e *Extractor) Classify(parsed *normalize.Result, batch catalog.Batch, sample []string) ([]model.ClassificationRecord, error) {
	records, err := e.Mapper.Map(parsed.Value, batch.Genes, sample)
	if err != nil {
		return nil, fmt.Errorf("batch %d: %w", batch.Index, err)
	}
	return records, nil
}

// Interpret is Parse followed by Classify.
func (e *Extractor) Interpret(raw string, batch catalog.Batch, sample []string) (*Interpretation, error) {
	parsed, err := e.Parse(raw, batch)
	if err != nil {
		return nil, err
	}
	records, err := e.Classify(parsed, batch, sample)
	if err != nil {
		return nil, err
	}
	return &Interpretation{
		Payload:  parsed.Value,
		Repaired: parsed.Repaired,
		Records:  records,
	}, nil
}

// ExtractBatch is Request followed by Interpret.
func (e *Extractor) ExtractBatch(ctx context.Context, batch catalog.Batch, sample []string) (*Interpretation, error) {
	completion, err := e.Request(ctx, batch, sample)
	if err != nil {
		return nil, err
	}
	return e.Interpret(completion.Text, batch, sample)
}
