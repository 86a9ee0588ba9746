package model

import "slices"

// Category is a boolean classification axis a gene is tested against.
type Category string

const (
	Cancer       Category = "cancer"
	HeartDisease Category = "heart_disease"
	Diabetes     Category = "diabetes"
	Dementia     Category = "dementia"
)

// Categories lists every category in reporting order.
var Categories = []Category{Cancer, HeartDisease, Diabetes, Dementia}

// OmittedEvidence marks records synthesized for genes the backend left out.
const OmittedEvidence = "omitted by model"

type Association struct {
	Associated bool   `json:"associated"`
	Evidence   string `json:"evidence"`
}

// ClassificationRecord is the validated result for one gene.
// Partners only ever holds other members of the run's sample.
type ClassificationRecord struct {
	Gene                string                   `json:"gene"`
	Associations        map[Category]Association `json:"associations"`
	Partners            []string                 `json:"partners"`
	InteractionEvidence string                   `json:"interaction_evidence,omitempty"`
	Synthesized         bool                     `json:"synthesized,omitempty"`
}

// Association returns the flag and evidence for c; a missing category reads as false.
func (r ClassificationRecord) Association(c Category) Association {
	return r.Associations[c]
}

// OmittedRecord is the default record used when a gene is missing from a response.
func OmittedRecord(gene string) ClassificationRecord {
	assoc := make(map[Category]Association, len(Categories))
	for _, c := range Categories {
		assoc[c] = Association{Associated: false, Evidence: OmittedEvidence}
	}
	return ClassificationRecord{
		Gene:         gene,
		Associations: assoc,
		Partners:     []string{},
		Synthesized:  true,
	}
}

// RunResult holds one record per sampled gene, in sample order.
type RunResult struct {
	Records []ClassificationRecord `json:"records"`
}

func (r RunResult) Genes() []string {
	genes := make([]string, len(r.Records))
	for i, rec := range r.Records {
		genes[i] = rec.Gene
	}
	return genes
}

// Index returns the records keyed by gene symbol.
func (r RunResult) Index() map[string]ClassificationRecord {
	idx := make(map[string]ClassificationRecord, len(r.Records))
	for _, rec := range r.Records {
		idx[rec.Gene] = rec
	}
	return idx
}

func (r RunResult) Lookup(gene string) (ClassificationRecord, bool) {
	i := slices.IndexFunc(r.Records, func(rec ClassificationRecord) bool { return rec.Gene == gene })
	if i < 0 {
		return ClassificationRecord{}, false
	}
	return r.Records[i], true
}
