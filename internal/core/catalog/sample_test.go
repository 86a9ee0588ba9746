package catalog

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSample_Pinned(t *testing.T) {
	sample, err := Sample([]string{"A", "B", "C", "D", "E", "F"}, 4, 42)

	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "E", "B"}, sample)
}

func TestSample_PinnedLarger(t *testing.T) {
	catalog := make([]string, 20)
	for i := range catalog {
		catalog[i] = fmt.Sprintf("G%02d", i)
	}

	sample, err := Sample(catalog, 10, 42)

	require.NoError(t, err)
	assert.Equal(t, []string{"G12", "G08", "G13", "G11", "G03", "G01", "G09", "G16", "G17", "G14"}, sample)
}

func TestSample_Deterministic(t *testing.T) {
	catalog := []string{"A", "B", "C", "D", "E", "F"}

	first, err := Sample(catalog, 4, 7)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Sample(catalog, 4, 7)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []string{"F", "B", "A", "D"}, first)
}

func TestSample_WithoutReplacement(t *testing.T) {
	catalog := []string{"A", "B", "C", "D", "E", "F"}

	sample, err := Sample(catalog, len(catalog), 42)
	require.NoError(t, err)

	sorted := slices.Clone(sample)
	slices.Sort(sorted)
	assert.Equal(t, catalog, sorted)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, catalog, "catalog must not be reordered")
}

func TestSample_Insufficient(t *testing.T) {
	_, err := Sample([]string{"A", "B"}, 3, 42)

	var insufficient *InsufficientCatalogError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Requested)
	assert.Equal(t, 2, insufficient.Available)
}

func TestPlan(t *testing.T) {
	sample := []string{"G1", "G2", "G3", "G4", "G5", "G6", "G7", "G8", "G9", "G10"}

	batches := Plan(sample, 4)

	require.Len(t, batches, 3)
	var sizes []int
	var joined []string
	for i, b := range batches {
		assert.Equal(t, i+1, b.Index)
		sizes = append(sizes, len(b.Genes))
		joined = append(joined, b.Genes...)
	}
	assert.Equal(t, []int{4, 4, 2}, sizes)
	assert.Equal(t, sample, joined)
}

func TestPlan_Coverage(t *testing.T) {
	sample := make([]string, 23)
	for i := range sample {
		sample[i] = fmt.Sprintf("G%d", i)
	}
	for size := 1; size <= 25; size++ {
		var joined []string
		for _, b := range Plan(sample, size) {
			assert.LessOrEqual(t, len(b.Genes), size)
			joined = append(joined, b.Genes...)
		}
		assert.Equal(t, sample, joined, "batch size %d", size)
	}
}

func TestPlan_Empty(t *testing.T) {
	assert.Empty(t, Plan(nil, 3))
}
