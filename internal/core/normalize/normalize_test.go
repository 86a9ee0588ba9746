package normalize

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wellFormed = `{"genes":[{"symbol":"TP53","diseases":{"cancer":{"associated":true,"evidence":"Tumor suppressor."},"heart_disease":{"associated":false,"evidence":"none"},"diabetes":{"associated":false,"evidence":"none"},"dementia":{"associated":false,"evidence":"none"}},"interactions":{"has_interactions":true,"partners":["BRCA1"],"evidence":"DNA damage response."}}]}`

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tagged", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"untagged", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no trailing fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"no fence", "  {\"a\":1}\n", `{"a":1}`},
		{"same line", "```json {\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestNormalize_FencedParsesWithoutRepair(t *testing.T) {
	res, err := Normalize("```json\n" + wellFormed + "\n```")

	require.NoError(t, err)
	assert.False(t, res.Repaired)
	assert.Equal(t, wellFormed, res.JSON)
	assert.Equal(t, decode(t, wellFormed), res.Value)
}

func TestNormalize_MissingClosingBrace(t *testing.T) {
	truncated := strings.TrimSuffix(wellFormed, "}")

	res, err := Normalize(truncated)

	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, decode(t, wellFormed), res.Value)
}

func TestNormalize_TrailingCommas(t *testing.T) {
	res, err := Normalize(`{"genes": [{"symbol": "A", "partners": ["B", "C",],},],}`)

	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, decode(t, `{"genes":[{"symbol":"A","partners":["B","C"]}]}`), res.Value)
}

func TestNormalize_ProseAroundObject(t *testing.T) {
	res, err := Normalize("Here is the JSON you asked for:\n" + wellFormed + "\nLet me know if you need more.")

	require.NoError(t, err)
	assert.True(t, res.Repaired)
	assert.Equal(t, decode(t, wellFormed), res.Value)
}

func TestNormalize_PythonLiterals(t *testing.T) {
	res, err := Normalize(`{"associated": True, "other": False, "evidence": None, "note": "True story"}`)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"associated": true,
		"other":      false,
		"evidence":   nil,
		"note":       "True story",
	}, res.Value)
}

func TestNormalize_TruncatedInsideString(t *testing.T) {
	res, err := Normalize(`{"genes":[{"symbol":"A","evidence":"x"},{"symbol":"B","evidence":"cut off mid`)

	require.NoError(t, err)
	assert.True(t, res.Repaired)
	genes := res.Value.(map[string]any)["genes"].([]any)
	assert.Len(t, genes, 2)
	assert.Equal(t, "cut off mid", genes[1].(map[string]any)["evidence"])
}

func TestNormalize_TruncatedAfterKey(t *testing.T) {
	res, err := Normalize(`{"genes":[{"symbol":"A"},{"symbol":"B","diseases":`)

	require.NoError(t, err)
	genes := res.Value.(map[string]any)["genes"].([]any)
	assert.Len(t, genes, 2)
	assert.Nil(t, genes[1].(map[string]any)["diseases"])
}

func TestNormalize_DanglingKeyFallsBackToLastCompleteMember(t *testing.T) {
	res, err := Normalize(`{"genes":[{"symbol":"A"},{"symbol":"B","dise`)

	require.NoError(t, err)
	genes := res.Value.(map[string]any)["genes"].([]any)
	assert.Equal(t, []any{
		map[string]any{"symbol": "A"},
		map[string]any{"symbol": "B"},
	}, genes)
}

func TestNormalize_Unparseable(t *testing.T) {
	raw := "I'm sorry, I cannot help with that."

	_, err := Normalize(raw)

	var unparseable *UnparseableResponseError
	require.True(t, errors.As(err, &unparseable))
	assert.Equal(t, raw, unparseable.Raw)
	assert.Error(t, unparseable.Err)
}

func TestRepair_IdempotentOnValidJSON(t *testing.T) {
	inputs := []string{
		wellFormed,
		`[1, 2.5e3, "a,]", {"k": [true, false, null]}]`,
		`{"escaped": "quote \" and brace }", "n": -0.1}`,
		`{}`,
	}
	for _, in := range inputs {
		repaired := Repair(in)
		assert.Equal(t, decode(t, in), decode(t, repaired), in)
		assert.Equal(t, repaired, Repair(repaired))
	}
}
