package model

// Wire shapes of the generation schema. The backend is asked to produce a
// GeneClaims document; responses are validated before they are trusted.

type DiseaseClaim struct {
	Associated bool   `json:"associated"`
	Evidence   string `json:"evidence"`
}

type DiseaseClaims struct {
	Cancer       DiseaseClaim `json:"cancer"`
	HeartDisease DiseaseClaim `json:"heart_disease"`
	Diabetes     DiseaseClaim `json:"diabetes"`
	Dementia     DiseaseClaim `json:"dementia"`
}

type InteractionClaim struct {
	HasInteractions bool     `json:"has_interactions"`
	Partners        []string `json:"partners"`
	Evidence        string   `json:"evidence"`
}

type GeneClaim struct {
	Symbol       string           `json:"symbol"`
	Diseases     DiseaseClaims    `json:"diseases"`
	Interactions InteractionClaim `json:"interactions"`
}

type GeneClaims struct {
	Genes []GeneClaim `json:"genes"`
}

// SchemaExample is the single-entry document shown to the backend.
func SchemaExample() GeneClaims {
	whyNot := DiseaseClaim{Associated: false, Evidence: "Why not"}
	return GeneClaims{
		Genes: []GeneClaim{
			{
				Symbol: "TP53",
				Diseases: DiseaseClaims{
					Cancer:       DiseaseClaim{Associated: true, Evidence: "BRIEF RATIONALE"},
					HeartDisease: whyNot,
					Diabetes:     whyNot,
					Dementia:     whyNot,
				},
				Interactions: InteractionClaim{
					HasInteractions: true,
					Partners:        []string{"BRCA1"},
					Evidence:        "Note whether interaction is direct, pathway-level, etc.",
				},
			},
		},
	}
}
