package catalog

import (
	"fmt"
	"math/rand/v2"
)

// InsufficientCatalogError is returned when more genes are requested than exist.
type InsufficientCatalogError struct {
	Requested int
	Available int
}

func (e *InsufficientCatalogError) Error() string {
	return fmt.Sprintf("cannot sample %d genes from a catalog of %d", e.Requested, e.Available)
}

// Sample draws count symbols without replacement. The draw is a partial
// Fisher-Yates shuffle over catalog positions driven by a PCG source seeded
// from seed, so a given (catalog, count, seed) always yields the same slice.
func Sample(catalog []string, count int, seed int64) ([]string, error) {
	if count < 0 || count > len(catalog) {
		return nil, &InsufficientCatalogError{Requested: count, Available: len(catalog)}
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	idx := make([]int, len(catalog))
	for i := range idx {
		idx[i] = i
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = catalog[idx[i]]
	}
	return out, nil
}
