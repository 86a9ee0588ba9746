package core

import (
	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core/model"
	"go.uber.org/zap"
)

// Aggregate merges per-batch records into one RunResult in sample order.
// Records for genes outside order are dropped. A gene validated twice is a
// DuplicateEntityError; a gene never validated is handled per policy.
func Aggregate(order []string, batches [][]model.ClassificationRecord, policy string) (model.RunResult, error) {
	wanted := make(map[string]bool, len(order))
	for _, g := range order {
		wanted[g] = true
	}

	seen := make(map[string]model.ClassificationRecord, len(order))
	for _, batch := range batches {
		for _, rec := range batch {
			if !wanted[rec.Gene] {
				continue
			}
			if _, dup := seen[rec.Gene]; dup {
				return model.RunResult{}, &model.DuplicateEntityError{Gene: rec.Gene}
			}
			seen[rec.Gene] = rec
		}
	}

	var missing []string
	for _, g := range order {
		if _, ok := seen[g]; !ok {
			missing = append(missing, g)
		}
	}
	if len(missing) > 0 {
		if policy != config.PolicyLenient {
			return model.RunResult{}, &model.MissingEntitiesError{Genes: missing}
		}
		zap.L().Warn("synthesizing records for genes missing from every batch", zap.Strings("genes", missing))
		for _, g := range missing {
			seen[g] = model.OmittedRecord(g)
		}
	}

	result := model.RunResult{Records: make([]model.ClassificationRecord, 0, len(order))}
	for _, g := range order {
		result.Records = append(result.Records, seen[g])
	}
	return result, nil
}
