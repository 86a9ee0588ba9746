package reconcile

import (
	"fmt"

	"github.com/agenthands/genescan/internal/core/model"
	"github.com/agenthands/genescan/internal/store"
	"go.uber.org/zap"
)

// CompareRuns loads two completed runs and compares them.
func CompareRuns(st *store.Store, baseline, candidate string) (Comparison, error) {
	base, err := results(st, baseline)
	if err != nil {
		return Comparison{}, err
	}
	cand, err := results(st, candidate)
	if err != nil {
		return Comparison{}, err
	}
	return Compare(base, cand), nil
}

// CompareAll compares every other completed run under the store root
// against baseline, in run-name order.
func CompareAll(st *store.Store, baseline string) ([]Named, error) {
	base, err := results(st, baseline)
	if err != nil {
		return nil, err
	}
	names, err := st.ListRuns()
	if err != nil {
		return nil, err
	}

	var out []Named
	for _, name := range names {
		if name == baseline {
			continue
		}
		cand, err := results(st, name)
		if err != nil {
			return nil, err
		}
		cmp := Compare(base, cand)
		zap.L().Info("compared run", zap.String("baseline", baseline), zap.String("candidate", name), zap.Int("shared", cmp.Shared))
		out = append(out, Named{Name: name, Comparison: cmp})
	}
	return out, nil
}

// WriteReport runs CompareAll and writes comparison.md under the store root.
func WriteReport(st *store.Store, baseline string) ([]Named, error) {
	named, err := CompareAll(st, baseline)
	if err != nil {
		return nil, err
	}
	if len(named) == 0 {
		return nil, fmt.Errorf("no runs to compare against %s under %s", baseline, st.Root())
	}
	if err := st.WriteFile(store.ComparisonFile, []byte(Markdown(baseline, named))); err != nil {
		return nil, err
	}
	return named, nil
}

func results(st *store.Store, name string) (model.RunResult, error) {
	r, err := st.Open(name)
	if err != nil {
		return model.RunResult{}, err
	}
	return r.Results()
}
