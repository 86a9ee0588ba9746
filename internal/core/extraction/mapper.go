package extraction

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core/model"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// Mapper validates parsed payloads and turns them into ClassificationRecords.
type Mapper struct {
	schema *gojsonschema.Schema
	policy string
}

func NewMapper(policy string) (*Mapper, error) {
	if policy != config.PolicyStrict && policy != config.PolicyLenient {
		return nil, fmt.Errorf("unknown missing-entity policy %q", policy)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(entrySchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile entry schema: %w", err)
	}
	return &Mapper{schema: schema, policy: policy}, nil
}

func (m *Mapper) Policy() string {
	return m.policy
}

// Map validates payload and returns one record per expected gene, in
// expected order. Entries for genes that were not requested are dropped
// before validation. Partners are restricted to sample minus the gene itself.
// Genes the payload omits fail under the strict policy and are synthesized
// under the lenient one.
func (m *Mapper) Map(payload any, expected, sample []string) ([]model.ClassificationRecord, error) {
	entries, err := geneEntries(payload)
	if err != nil {
		return nil, err
	}

	mapped := make(map[string]model.ClassificationRecord, len(expected))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, &model.MalformedEntryError{Entry: compact(raw), Reason: "entry is not an object"}
		}
		symbol, _ := entry["symbol"].(string)
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			return nil, &model.MalformedEntryError{Entry: compact(raw), Reason: "missing symbol"}
		}
		if !slices.Contains(expected, symbol) {
			zap.L().Debug("discarding gene that was not requested", zap.String("gene", symbol))
			continue
		}
		if _, dup := mapped[symbol]; dup {
			return nil, &model.DuplicateEntityError{Gene: symbol}
		}
		if err := m.validate(entry); err != nil {
			return nil, err
		}
		mapped[symbol] = toRecord(symbol, entry, sample)
	}

	var missing []string
	for _, g := range expected {
		if _, ok := mapped[g]; !ok {
			missing = append(missing, g)
		}
	}
	if len(missing) > 0 {
		if m.policy == config.PolicyStrict {
			return nil, &model.MissingEntitiesError{Genes: missing}
		}
		zap.L().Warn("model omitted genes, synthesizing default records", zap.Strings("genes", missing))
		for _, g := range missing {
			mapped[g] = model.OmittedRecord(g)
		}
	}

	records := make([]model.ClassificationRecord, 0, len(expected))
	for _, g := range expected {
		records = append(records, mapped[g])
	}
	return records, nil
}

func geneEntries(payload any) ([]any, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, &model.MalformedEntryError{Entry: compact(payload), Reason: "response is not a JSON object"}
	}
	entries, ok := obj["genes"].([]any)
	if !ok {
		return nil, &model.MalformedEntryError{Entry: compact(payload), Reason: "JSON missing 'genes' array"}
	}
	return entries, nil
}

func (m *Mapper) validate(entry map[string]any) error {
	result, err := m.schema.Validate(gojsonschema.NewGoLoader(entry))
	if err != nil {
		return &model.MalformedEntryError{Entry: compact(entry), Reason: err.Error()}
	}
	if result.Valid() {
		return nil
	}
	reasons := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		reasons = append(reasons, desc.String())
	}
	return &model.MalformedEntryError{Entry: compact(entry), Reason: strings.Join(reasons, "; ")}
}

func toRecord(symbol string, entry map[string]any, sample []string) model.ClassificationRecord {
	diseases := entry["diseases"].(map[string]any)
	assoc := make(map[model.Category]model.Association, len(model.Categories))
	for _, c := range model.Categories {
		claim := diseases[string(c)].(map[string]any)
		assoc[c] = model.Association{
			Associated: truthy(claim["associated"]),
			Evidence:   text(claim["evidence"]),
		}
	}

	rec := model.ClassificationRecord{
		Gene:         symbol,
		Associations: assoc,
		Partners:     []string{},
	}

	inter := entry["interactions"].(map[string]any)
	rec.InteractionEvidence = text(inter["evidence"])
	if !truthy(inter["has_interactions"]) {
		return rec
	}
	partners, _ := inter["partners"].([]any)
	for _, p := range partners {
		name := strings.TrimSpace(text(p))
		switch {
		case name == symbol, slices.Contains(rec.Partners, name):
		case slices.Contains(sample, name):
			rec.Partners = append(rec.Partners, name)
		default:
			zap.L().Debug("dropping partner outside the sample", zap.String("gene", symbol), zap.String("partner", name))
		}
	}
	return rec
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	if len(data) > 500 {
		return string(data[:500]) + "..."
	}
	return string(data)
}
