// Package prompt renders the schema-constrained classification request for a batch.
package prompt

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core/catalog"
	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/llm"
)

const noOtherGenes = "none beyond the genes listed above"

type Builder struct {
	system string
	user   string
	schema string
}

// NewBuilder checks that the user template has exactly three %s verbs:
// batch genes, partner pool, schema.
func NewBuilder(p config.Prompts) (*Builder, error) {
	if n := strings.Count(p.User, "%s"); n != 3 {
		return nil, fmt.Errorf("user prompt template needs 3 %%s verbs, found %d", n)
	}
	schema, err := json.MarshalIndent(model.SchemaExample(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render schema example: %w", err)
	}
	return &Builder{system: p.System, user: p.User, schema: string(schema)}, nil
}

// Build lists the batch genes verbatim and offers the rest of the sample as
// the only other valid interaction partners.
func (b *Builder) Build(batch catalog.Batch, sample []string) []llm.Message {
	others := make([]string, 0, len(sample))
	for _, g := range sample {
		if !slices.Contains(batch.Genes, g) {
			others = append(others, g)
		}
	}
	pool := noOtherGenes
	if len(others) > 0 {
		pool = strings.Join(others, ", ")
	}

	messages := make([]llm.Message, 0, 2)
	if b.system != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: b.system})
	}
	return append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: fmt.Sprintf(b.user, strings.Join(batch.Genes, ", "), pool, b.schema),
	})
}
