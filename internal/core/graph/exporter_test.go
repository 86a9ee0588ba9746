package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/driver"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult() model.RunResult {
	return model.RunResult{Records: []model.ClassificationRecord{
		{
			Gene: "TP53",
			Associations: map[model.Category]model.Association{
				model.Cancer: {Associated: true, Evidence: "Tumor suppressor."},
			},
			Partners:            []string{"BRCA1"},
			InteractionEvidence: "DNA repair",
		},
		model.OmittedRecord("BRCA1"),
	}}
}

func TestExport(t *testing.T) {
	mock := &MockDriver{}
	e := NewExporter(mock)
	e.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	stats, err := e.Export(context.Background(), "run-1", "llama3.2:3b", testResult())

	require.NoError(t, err)
	assert.Equal(t, &ExportStats{Genes: 2, Interactions: 1}, stats)
	assert.Equal(t, 1, mock.IndicesBuilt)
	assert.Equal(t, driver.DeleteRunQuery, mock.Executed[0].Query)

	genes := mock.queries(driver.SaveGeneQuery)
	require.Len(t, genes, 2)
	assert.Equal(t, "TP53", genes[0].Params["symbol"])
	assert.Equal(t, "run-1", genes[0].Params["run_id"])
	assert.Equal(t, true, genes[0].Params["cancer"])
	assert.Equal(t, false, genes[0].Params["dementia"])
	assert.Equal(t, "Tumor suppressor.", genes[0].Params["evidence"])
	assert.Equal(t, "2026-01-02T03:04:05Z", genes[0].Params["exported_at"])
	assert.Equal(t, true, genes[1].Params["synthesized"])

	edges := mock.queries(driver.SaveInteractionQuery)
	require.Len(t, edges, 1)
	assert.Equal(t, "TP53", edges[0].Params["source"])
	assert.Equal(t, "BRCA1", edges[0].Params["target"])
	assert.Equal(t, "DNA repair", edges[0].Params["evidence"])
}

func TestExport_Error(t *testing.T) {
	mock := &MockDriver{Err: errors.New("db error"), FailOn: driver.SaveGeneQuery}

	_, err := NewExporter(mock).Export(context.Background(), "run-1", "m", testResult())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
	assert.Contains(t, err.Error(), "TP53")
}

func TestInteractions(t *testing.T) {
	mock := &MockDriver{MockResult: neo4j.EagerResult{
		Records: []*neo4j.Record{
			{Keys: []string{"source", "target"}, Values: []any{"TP53", "BRCA1"}},
			{Keys: []string{"source", "target"}, Values: []any{"APOE", nil}},
		},
	}}

	edges, err := NewExporter(mock).Interactions(context.Background(), "run-1")

	require.NoError(t, err)
	assert.Equal(t, []Interaction{{Source: "TP53", Target: "BRCA1"}}, edges)
	assert.Equal(t, "run-1", mock.Executed[0].Params["run_id"])
}

func TestGenes(t *testing.T) {
	keys := []string{"symbol", "cancer", "heart_disease", "diabetes", "dementia"}
	mock := &MockDriver{MockResult: neo4j.EagerResult{
		Records: []*neo4j.Record{
			{Keys: keys, Values: []any{"TP53", true, false, false, nil}},
		},
	}}

	genes, err := NewExporter(mock).Genes(context.Background(), "run-1")

	require.NoError(t, err)
	require.Len(t, genes, 1)
	assert.Equal(t, "TP53", genes[0].Symbol)
	assert.True(t, genes[0].Flags[model.Cancer])
	assert.False(t, genes[0].Flags[model.Dementia])
}
