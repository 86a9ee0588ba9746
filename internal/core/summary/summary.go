// Package summary reduces a run result to the counts and timings reported
// alongside it.
package summary

import (
	"time"

	"github.com/agenthands/genescan/internal/core/community"
	"github.com/agenthands/genescan/internal/core/model"
	"github.com/montanaflynn/stats"
)

type CategoryCount struct {
	Category model.Category `json:"category"`
	Count    int            `json:"count"`
}

type GeneInteractions struct {
	Gene     string   `json:"gene"`
	Partners []string `json:"partners"`
}

// LatencyStats are per backend call, in seconds.
type LatencyStats struct {
	Calls  int     `json:"calls"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

type Summary struct {
	RunID     string    `json:"run_id"`
	Model     string    `json:"model"`
	Provider  string    `json:"provider"`
	Seed      int64     `json:"seed"`
	BatchSize int       `json:"batch_size"`
	Policy    string    `json:"missing_policy"`
	StartedAt time.Time `json:"started_at"`

	TotalGenes            int                `json:"total_genes"`
	DiseaseCounts         []CategoryCount    `json:"disease_counts"`
	GenesWithInteractions []GeneInteractions `json:"genes_with_interactions"`
	Clusters              [][]string         `json:"interaction_clusters"`
	SynthesizedGenes      int                `json:"synthesized_genes"`
	RepairedBatches       int                `json:"repaired_batches"`

	RuntimeSeconds        float64      `json:"runtime_seconds"`
	WallClockSeconds      float64      `json:"wall_clock_seconds"`
	ManualEstimateMinutes float64      `json:"manual_estimate_minutes"`
	Latency               LatencyStats `json:"latency"`
}

// Input is everything Summarize needs from a finished run.
type Input struct {
	RunID     string
	Model     string
	Provider  string
	Seed      int64
	BatchSize int
	Policy    string
	StartedAt time.Time

	Result               model.RunResult
	Latencies            []time.Duration // successful attempt of each batch
	RepairedBatches      int
	WallClock            time.Duration
	ManualMinutesPerGene float64
	Detector             community.Detector // defaults to connected components
}

func Summarize(in Input) *Summary {
	s := &Summary{
		RunID:                 in.RunID,
		Model:                 in.Model,
		Provider:              in.Provider,
		Seed:                  in.Seed,
		BatchSize:             in.BatchSize,
		Policy:                in.Policy,
		StartedAt:             in.StartedAt,
		TotalGenes:            len(in.Result.Records),
		GenesWithInteractions: []GeneInteractions{},
		RepairedBatches:       in.RepairedBatches,
		WallClockSeconds:      in.WallClock.Seconds(),
		ManualEstimateMinutes: in.ManualMinutesPerGene * float64(len(in.Result.Records)),
	}

	for _, c := range model.Categories {
		n := 0
		for _, rec := range in.Result.Records {
			if rec.Association(c).Associated {
				n++
			}
		}
		s.DiseaseCounts = append(s.DiseaseCounts, CategoryCount{Category: c, Count: n})
	}

	for _, rec := range in.Result.Records {
		if rec.Synthesized {
			s.SynthesizedGenes++
		}
		if len(rec.Partners) > 0 {
			s.GenesWithInteractions = append(s.GenesWithInteractions, GeneInteractions{Gene: rec.Gene, Partners: rec.Partners})
		}
	}

	detector := in.Detector
	if detector == nil {
		detector = community.NewComponentDetector()
	}
	s.Clusters = detector.Detect(community.FromRun(in.Result))
	if s.Clusters == nil {
		s.Clusters = [][]string{}
	}

	s.Latency, s.RuntimeSeconds = latencyStats(in.Latencies)
	return s
}

// Count returns the number of genes associated with c.
func (s *Summary) Count(c model.Category) int {
	for _, cc := range s.DiseaseCounts {
		if cc.Category == c {
			return cc.Count
		}
	}
	return 0
}

func latencyStats(latencies []time.Duration) (LatencyStats, float64) {
	if len(latencies) == 0 {
		return LatencyStats{}, 0
	}
	data := make(stats.Float64Data, len(latencies))
	for i, l := range latencies {
		data[i] = l.Seconds()
	}

	ls := LatencyStats{Calls: len(data)}
	ls.Mean, _ = stats.Mean(data)
	ls.Median, _ = stats.Median(data)
	ls.Max, _ = stats.Max(data)
	if p, err := stats.Percentile(data, 95); err == nil {
		ls.P95 = p
	} else {
		ls.P95 = ls.Max
	}
	total, _ := stats.Sum(data)
	return ls, total
}
