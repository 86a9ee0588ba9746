package catalog

// Batch is a contiguous slice of the sample sent in one backend call.
type Batch struct {
	Index int // 1-based
	Genes []string
}

// Plan splits sample into consecutive batches of size; the last may be shorter.
// size must be positive.
func Plan(sample []string, size int) []Batch {
	if size <= 0 {
		panic("catalog: batch size must be positive")
	}
	batches := make([]Batch, 0, (len(sample)+size-1)/size)
	for start := 0; start < len(sample); start += size {
		end := min(start+size, len(sample))
		batches = append(batches, Batch{
			Index: len(batches) + 1,
			Genes: sample[start:end:end],
		})
	}
	return batches
}
