package prompt

import (
	"strings"
	"testing"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core/catalog"
	"github.com/agenthands/genescan/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	b, err := NewBuilder(config.Default().Prompts)
	require.NoError(t, err)

	msgs := b.Build(catalog.Batch{Index: 1, Genes: []string{"TP53", "APOE"}}, []string{"TP53", "APOE", "INS", "MYH7"})

	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "markdown fences")

	user := msgs[1].Content
	assert.Equal(t, llm.RoleUser, msgs[1].Role)
	assert.Contains(t, user, "Evaluate the following human genes: TP53, APOE.")
	assert.Contains(t, user, "INS, MYH7")
	assert.NotContains(t, user, "%!")
	for _, field := range []string{`"genes"`, `"symbol"`, `"cancer"`, `"heart_disease"`, `"diabetes"`, `"dementia"`,
		`"associated"`, `"evidence"`, `"has_interactions"`, `"partners"`} {
		assert.Contains(t, user, field)
	}
	assert.Contains(t, user, "2 sentences")
	assert.Contains(t, user, "No markdown")
}

func TestBuild_WholeSampleInOneBatch(t *testing.T) {
	b, err := NewBuilder(config.Default().Prompts)
	require.NoError(t, err)

	msgs := b.Build(catalog.Batch{Index: 1, Genes: []string{"A", "B"}}, []string{"A", "B"})

	assert.Contains(t, msgs[1].Content, noOtherGenes)
}

func TestBuild_NoSystemPrompt(t *testing.T) {
	b, err := NewBuilder(config.Prompts{User: "genes=%s pool=%s schema=%s"})
	require.NoError(t, err)

	msgs := b.Build(catalog.Batch{Genes: []string{"A"}}, []string{"A", "B"})

	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0].Content, "genes=A pool=B schema={"))
}

func TestNewBuilder_RejectsBadTemplate(t *testing.T) {
	_, err := NewBuilder(config.Prompts{User: "only %s here"})
	assert.Error(t, err)
}
