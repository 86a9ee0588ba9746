package core

import (
	"context"
	"time"

	"github.com/agenthands/genescan/internal/config"
	"github.com/agenthands/genescan/internal/core/catalog"
	"github.com/agenthands/genescan/internal/core/community"
	"github.com/agenthands/genescan/internal/core/extraction"
	"github.com/agenthands/genescan/internal/core/graph"
	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/core/summary"
	"github.com/agenthands/genescan/internal/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pipeline runs one classification pass over a sample of the catalog.
// Batches are sent strictly one after another.
type Pipeline struct {
	Config    *config.Config
	Catalog   []string
	Extractor *extraction.Extractor
	Store     *store.Store
	Exporter  *graph.Exporter // nil skips the graph export
	Overwrite bool

	NewID func() string
	Now   func() time.Time
}

func NewPipeline(cfg *config.Config, genes []string, extractor *extraction.Extractor, st *store.Store) *Pipeline {
	return &Pipeline{
		Config:    cfg,
		Catalog:   genes,
		Extractor: extractor,
		Store:     st,
		NewID:     func() string { return uuid.New().String() },
		Now:       time.Now,
	}
}

// Report describes a completed run.
type Report struct {
	RunID   string
	Dir     string
	Sample  []string
	Result  model.RunResult
	Summary *summary.Summary
}

// Run samples, classifies and persists. Raw responses are flushed as each
// batch arrives; a failure stops the run before results.json is written.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	cfg := p.Config.Pipeline
	started := p.Now()
	runID := p.NewID()
	log := zap.L().With(zap.String("run_id", runID), zap.String("model", p.Config.Backend.Model))

	sample, err := catalog.Sample(p.Catalog, cfg.SampleCount, cfg.Seed)
	if err != nil {
		return nil, err
	}
	writer, err := p.Store.Create(store.RunDirName(cfg.RunName, p.Config.Backend.Model), p.Overwrite)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteSelected(sample); err != nil {
		return nil, err
	}

	batches := catalog.Plan(sample, cfg.BatchSize)
	log.Info("starting run",
		zap.Int("genes", len(sample)),
		zap.Int("batches", len(batches)),
		zap.Int64("seed", cfg.Seed),
		zap.String("policy", cfg.MissingPolicy),
		zap.String("dir", writer.Dir()))

	var (
		perBatch  = make([][]model.ClassificationRecord, 0, len(batches))
		latencies = make([]time.Duration, 0, len(batches))
		repaired  int
	)
	for _, b := range batches {
		log.Info("requesting batch", zap.Int("batch", b.Index), zap.Int("of", len(batches)), zap.Strings("genes", b.Genes))

		completion, err := p.Extractor.Request(ctx, b, sample)
		if err != nil {
			return nil, err
		}
		raw := store.RawResponse{
			Batch:          b.Index,
			Genes:          b.Genes,
			Response:       completion.Text,
			LatencySeconds: completion.Latency.Seconds(),
			Attempts:       completion.Attempts,
		}
		if err := writer.AppendRaw(raw); err != nil {
			return nil, err
		}
		latencies = append(latencies, completion.Latency)

		parsed, err := p.Extractor.Parse(completion.Text, b)
		if err != nil {
			return nil, err
		}
		if err := writer.AppendStructured(parsed.Value); err != nil {
			return nil, err
		}
		if parsed.Repaired {
			repaired++
			log.Warn("batch response needed repair", zap.Int("batch", b.Index))
		}
		records, err := p.Extractor.Classify(parsed, b, sample)
		if err != nil {
			return nil, err
		}
		perBatch = append(perBatch, records)

		log.Info("batch complete",
			zap.Int("batch", b.Index),
			zap.Duration("latency", completion.Latency),
			zap.Int("attempts", completion.Attempts),
			zap.Int("records", len(records)))
	}

	result, err := Aggregate(sample, perBatch, cfg.MissingPolicy)
	if err != nil {
		return nil, err
	}
	if err := writer.WriteResults(result); err != nil {
		return nil, err
	}

	sum := summary.Summarize(summary.Input{
		RunID:                runID,
		Model:                p.Config.Backend.Model,
		Provider:             p.Config.Backend.Provider,
		Seed:                 cfg.Seed,
		BatchSize:            cfg.BatchSize,
		Policy:               cfg.MissingPolicy,
		StartedAt:            started.UTC(),
		Result:               result,
		Latencies:            latencies,
		RepairedBatches:      repaired,
		WallClock:            p.Now().Sub(started),
		ManualMinutesPerGene: cfg.ManualMinutesPerGene,
		Detector:             clusterDetector(cfg.ClusterDetector),
	})
	if err := writer.WriteSummary(sum); err != nil {
		return nil, err
	}
	if err := writer.WriteSpotAudit(summary.SpotAudit(result, cfg.SpotAudit)); err != nil {
		return nil, err
	}

	// The run is complete on disk; a failed export is reported but does not
	// fail it.
	if p.Exporter != nil {
		if _, err := p.Exporter.Export(ctx, runID, p.Config.Backend.Model, result); err != nil {
			log.Warn("graph export failed", zap.Error(err))
		}
	}

	log.Info("run complete",
		zap.Int("genes", sum.TotalGenes),
		zap.Int("synthesized", sum.SynthesizedGenes),
		zap.Float64("runtime_seconds", sum.RuntimeSeconds),
		zap.Float64("wall_clock_seconds", sum.WallClockSeconds))

	return &Report{
		RunID:   runID,
		Dir:     writer.Dir(),
		Sample:  sample,
		Result:  result,
		Summary: sum,
	}, nil
}

// clusterDetector maps a validated config name to a detector. Unknown
// names fall back to connected components.
func clusterDetector(name string) community.Detector {
	if name == config.DetectorLabelPropagation {
		return community.NewLabelPropagationDetector()
	}
	return community.NewComponentDetector()
}
