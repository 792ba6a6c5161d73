package fetcher

// Plan returns the starting offsets of the batches covering a feed of total
// posts: 0, batchCap, 2*batchCap, ... ceil(total/batchCap) offsets in all.
func Plan(total, batchCap int) []int {
	if total <= 0 || batchCap <= 0 {
		return nil
	}
	offsets := make([]int, 0, (total+batchCap-1)/batchCap)
	for offset := 0; offset < total; offset += batchCap {
		offsets = append(offsets, offset)
	}
	return offsets
}
