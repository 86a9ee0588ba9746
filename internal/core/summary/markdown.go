package summary

import (
	"fmt"
	"strings"

	"github.com/agenthands/genescan/internal/core/model"
)

// Title turns "heart_disease" into "Heart Disease".
func Title(c model.Category) string {
	words := strings.Split(string(c), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# Gene Analysis Summary\n")
	fmt.Fprintf(&b, "- Model: `%s`\n", s.Model)
	if s.Provider != "" {
		fmt.Fprintf(&b, "- Provider: %s\n", s.Provider)
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "- Run ID: %s\n", s.RunID)
	}
	fmt.Fprintf(&b, "- Genes: %d (seed %d, batch size %d, %s policy)\n", s.TotalGenes, s.Seed, s.BatchSize, s.Policy)
	fmt.Fprintf(&b, "- Runtime (sec): %.2f\n", s.RuntimeSeconds)
	fmt.Fprintf(&b, "- Wall clock (sec): %.2f\n", s.WallClockSeconds)
	fmt.Fprintf(&b, "- Estimated manual time (minutes): %.1f\n", s.ManualEstimateMinutes)
	if s.Latency.Calls > 0 {
		fmt.Fprintf(&b, "- Call latency (sec): mean %.2f, median %.2f, p95 %.2f, max %.2f over %d calls\n",
			s.Latency.Mean, s.Latency.Median, s.Latency.P95, s.Latency.Max, s.Latency.Calls)
	}
	if s.SynthesizedGenes > 0 {
		fmt.Fprintf(&b, "- Genes omitted by the model: %d\n", s.SynthesizedGenes)
	}
	if s.RepairedBatches > 0 {
		fmt.Fprintf(&b, "- Batches needing JSON repair: %d\n", s.RepairedBatches)
	}

	b.WriteString("\n## Disease Counts\n")
	for _, cc := range s.DiseaseCounts {
		fmt.Fprintf(&b, "- **%s**: %d\n", Title(cc.Category), cc.Count)
	}

	b.WriteString("\n## Genes With Reported Interactions\n")
	if len(s.GenesWithInteractions) == 0 {
		b.WriteString("- None reported\n")
	}
	for _, gi := range s.GenesWithInteractions {
		fmt.Fprintf(&b, "- %s: %s\n", gi.Gene, strings.Join(gi.Partners, ", "))
	}

	if len(s.Clusters) > 0 {
		b.WriteString("\n## Interaction Clusters\n")
		for i, c := range s.Clusters {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(c, ", "))
		}
	}
	return b.String()
}

// SpotAudit lists the flags of a few canonical genes, if the run sampled them.
func SpotAudit(result model.RunResult, genes []string) string {
	var b strings.Builder
	b.WriteString("# Spot Audit\n\n")
	for _, g := range genes {
		rec, ok := result.Lookup(g)
		if !ok {
			fmt.Fprintf(&b, "- %s: not present in this run\n", g)
			continue
		}
		fmt.Fprintf(&b, "- %s: cancer=%t, heart=%t, diabetes=%t, dementia=%t\n", g,
			rec.Association(model.Cancer).Associated,
			rec.Association(model.HeartDisease).Associated,
			rec.Association(model.Diabetes).Associated,
			rec.Association(model.Dementia).Associated)
	}
	return b.String()
}
