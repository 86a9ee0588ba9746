// Package reconcile compares two independent runs gene by gene.
package reconcile

import (
	"fmt"
	"strings"

	"github.com/agenthands/genescan/internal/core/model"
)

// CautiousMarker is the evidence phrase that turns a candidate's negative
// disagreement into "unsure". Matched case-insensitively as a literal.
const CautiousMarker = "no known association"

type Stats struct {
	Agree    int `json:"agree"`
	Disagree int `json:"disagree"`
	Unsure   int `json:"unsure"`
}

type Comparison struct {
	Shared     int                     `json:"shared_genes"`
	Categories map[model.Category]Stats `json:"categories"`
}

// Compare counts, per category, how candidate agrees with baseline over the
// genes present in both. A disagreement where the candidate says false and
// its evidence contains CautiousMarker counts as unsure; the reverse never does.
func Compare(baseline, candidate model.RunResult) Comparison {
	cmp := Comparison{Categories: make(map[model.Category]Stats, len(model.Categories))}
	for _, c := range model.Categories {
		cmp.Categories[c] = Stats{}
	}

	other := candidate.Index()
	for _, base := range baseline.Records {
		cand, ok := other[base.Gene]
		if !ok {
			continue
		}
		cmp.Shared++
		for _, c := range model.Categories {
			st := cmp.Categories[c]
			b, k := base.Association(c), cand.Association(c)
			switch {
			case b.Associated == k.Associated:
				st.Agree++
			case !k.Associated && strings.Contains(strings.ToLower(k.Evidence), CautiousMarker):
				st.Unsure++
			default:
				st.Disagree++
			}
			cmp.Categories[c] = st
		}
	}
	return cmp
}

// Named pairs a candidate run's name with its comparison against the baseline.
type Named struct {
	Name       string
	Comparison Comparison
}

// Markdown renders one agree/disagree/unsure table per candidate.
func Markdown(baseline string, comparisons []Named) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Comparison Against %s\n\n", baseline)
	for _, n := range comparisons {
		fmt.Fprintf(&b, "## %s\n", n.Name)
		fmt.Fprintf(&b, "Shared genes: %d\n\n", n.Comparison.Shared)
		b.WriteString("| Disease | Agree | Disagree | Unsure |\n")
		b.WriteString("| --- | ---:| ---:| ---:|\n")
		for _, c := range model.Categories {
			st := n.Comparison.Categories[c]
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", strings.ReplaceAll(string(c), "_", " "), st.Agree, st.Disagree, st.Unsure)
		}
		b.WriteString("\n")
	}
	return b.String()
}
