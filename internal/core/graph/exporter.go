// Package graph mirrors a run's interaction network into Memgraph.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/driver"
	"go.uber.org/zap"
)

type Exporter struct {
	Driver driver.GraphDriver
	Now    func() time.Time
}

func NewExporter(d driver.GraphDriver) *Exporter {
	return &Exporter{Driver: d, Now: time.Now}
}

type ExportStats struct {
	Genes        int
	Interactions int
}

// Export replaces any earlier export of runID with one Gene node per record
// and one INTERACTS_WITH edge per reported partner.
func (e *Exporter) Export(ctx context.Context, runID, modelName string, result model.RunResult) (*ExportStats, error) {
	if err := e.Driver.BuildIndices(ctx); err != nil {
		return nil, fmt.Errorf("failed to build indices: %w", err)
	}
	if _, err := e.Driver.ExecuteQuery(ctx, driver.DeleteRunQuery, map[string]interface{}{"run_id": runID}); err != nil {
		return nil, fmt.Errorf("failed to clear previous export: %w", err)
	}

	now := e.Now().UTC().Format(time.RFC3339)
	stats := &ExportStats{}
	for _, rec := range result.Records {
		params := map[string]interface{}{
			"symbol":      rec.Gene,
			"run_id":      runID,
			"model":       modelName,
			"synthesized": rec.Synthesized,
			"evidence":    evidence(rec),
			"exported_at": now,
		}
		for _, c := range model.Categories {
			params[string(c)] = rec.Association(c).Associated
		}
		if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveGeneQuery, params); err != nil {
			return nil, fmt.Errorf("failed to save gene %s: %w", rec.Gene, err)
		}
		stats.Genes++
	}

	for _, rec := range result.Records {
		for _, p := range rec.Partners {
			params := map[string]interface{}{
				"source":   rec.Gene,
				"target":   p,
				"run_id":   runID,
				"evidence": rec.InteractionEvidence,
			}
			if _, err := e.Driver.ExecuteQuery(ctx, driver.SaveInteractionQuery, params); err != nil {
				return nil, fmt.Errorf("failed to save interaction %s-%s: %w", rec.Gene, p, err)
			}
			stats.Interactions++
		}
	}

	zap.L().Info("exported run graph",
		zap.String("run_id", runID),
		zap.Int("genes", stats.Genes),
		zap.Int("interactions", stats.Interactions))
	return stats, nil
}

// Interaction is a stored INTERACTS_WITH edge.
type Interaction struct {
	Source string
	Target string
}

// Interactions reads back the exported edges of a run.
func (e *Exporter) Interactions(ctx context.Context, runID string) ([]Interaction, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.GetInteractionsQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, err
	}
	var out []Interaction
	for _, rec := range res.Records {
		source, _ := rec.Get("source")
		target, _ := rec.Get("target")
		s, ok1 := source.(string)
		t, ok2 := target.(string)
		if !ok1 || !ok2 {
			continue
		}
		out = append(out, Interaction{Source: s, Target: t})
	}
	return out, nil
}

// StoredGene is a Gene node read back from the graph.
type StoredGene struct {
	Symbol string
	Flags  map[model.Category]bool
}

func (e *Exporter) Genes(ctx context.Context, runID string) ([]StoredGene, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.GetRunGenesQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, err
	}
	var out []StoredGene
	for _, rec := range res.Records {
		val, _ := rec.Get("symbol")
		symbol, ok := val.(string)
		if !ok {
			continue
		}
		g := StoredGene{Symbol: symbol, Flags: make(map[model.Category]bool, len(model.Categories))}
		for _, c := range model.Categories {
			if v, ok := rec.Get(string(c)); ok {
				g.Flags[c], _ = v.(bool)
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func evidence(rec model.ClassificationRecord) string {
	parts := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		if ev := rec.Association(c).Evidence; ev != "" {
			parts = append(parts, ev)
		}
	}
	return strings.Join(parts, " ")
}
