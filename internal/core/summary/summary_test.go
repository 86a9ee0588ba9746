package summary

import (
	"testing"
	"time"

	"github.com/agenthands/genescan/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(gene string, cancer, dementia bool, partners ...string) model.ClassificationRecord {
	return model.ClassificationRecord{
		Gene: gene,
		Associations: map[model.Category]model.Association{
			model.Cancer:       {Associated: cancer},
			model.HeartDisease: {},
			model.Diabetes:     {},
			model.Dementia:     {Associated: dementia},
		},
		Partners: partners,
	}
}

func sampleResult() model.RunResult {
	return model.RunResult{Records: []model.ClassificationRecord{
		record("TP53", true, false, "BRCA1"),
		record("BRCA1", true, false, "TP53"),
		record("APOE", false, true),
		model.OmittedRecord("INS"),
	}}
}

func TestSummarize(t *testing.T) {
	s := Summarize(Input{
		RunID:                "run-1",
		Model:                "llama3.2:3b",
		Seed:                 42,
		BatchSize:            2,
		Policy:               "lenient",
		Result:               sampleResult(),
		Latencies:            []time.Duration{time.Second, 3 * time.Second},
		RepairedBatches:      1,
		WallClock:            5 * time.Second,
		ManualMinutesPerGene: 4,
	})

	assert.Equal(t, 4, s.TotalGenes)
	require.Len(t, s.DiseaseCounts, 4)
	assert.Equal(t, model.Cancer, s.DiseaseCounts[0].Category)
	assert.Equal(t, 2, s.Count(model.Cancer))
	assert.Equal(t, 0, s.Count(model.HeartDisease))
	assert.Equal(t, 1, s.Count(model.Dementia))
	assert.Equal(t, []GeneInteractions{
		{Gene: "TP53", Partners: []string{"BRCA1"}},
		{Gene: "BRCA1", Partners: []string{"TP53"}},
	}, s.GenesWithInteractions)
	assert.Equal(t, [][]string{{"TP53", "BRCA1"}}, s.Clusters)
	assert.Equal(t, 1, s.SynthesizedGenes)
	assert.Equal(t, 1, s.RepairedBatches)
	assert.InDelta(t, 4.0, s.RuntimeSeconds, 1e-9)
	assert.InDelta(t, 5.0, s.WallClockSeconds, 1e-9)
	assert.InDelta(t, 16.0, s.ManualEstimateMinutes, 1e-9)
	assert.Equal(t, 2, s.Latency.Calls)
	assert.InDelta(t, 2.0, s.Latency.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.Latency.Median, 1e-9)
	assert.InDelta(t, 3.0, s.Latency.Max, 1e-9)
	assert.LessOrEqual(t, s.Latency.P95, s.Latency.Max)
}

func TestSummarize_NoCallsNoInteractions(t *testing.T) {
	s := Summarize(Input{Result: model.RunResult{Records: []model.ClassificationRecord{record("A", false, false)}}})

	assert.Equal(t, LatencyStats{}, s.Latency)
	assert.Zero(t, s.RuntimeSeconds)
	assert.NotNil(t, s.GenesWithInteractions)
	assert.NotNil(t, s.Clusters)
	assert.Contains(t, s.Markdown(), "- None reported")
}

func TestMarkdown(t *testing.T) {
	s := Summarize(Input{
		Model:     "m",
		Result:    sampleResult(),
		Latencies: []time.Duration{2 * time.Second},
	})

	md := s.Markdown()

	assert.Contains(t, md, "# Gene Analysis Summary")
	assert.Contains(t, md, "- Model: `m`")
	assert.Contains(t, md, "- **Heart Disease**: 0")
	assert.Contains(t, md, "- **Cancer**: 2")
	assert.Contains(t, md, "- TP53: BRCA1")
	assert.Contains(t, md, "## Interaction Clusters\n1. TP53, BRCA1")
	assert.Contains(t, md, "- Genes omitted by the model: 1")
}

func TestSpotAudit(t *testing.T) {
	audit := SpotAudit(sampleResult(), []string{"TP53", "MYC"})

	assert.Equal(t, "# Spot Audit\n\n"+
		"- TP53: cancer=true, heart=false, diabetes=false, dementia=false\n"+
		"- MYC: not present in this run\n", audit)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Heart Disease", Title(model.HeartDisease))
	assert.Equal(t, "Cancer", Title(model.Cancer))
}
