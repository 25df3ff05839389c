package payload

// Chunk splits ids into consecutive groups of at most size, preserving
// order. Empty input yields nil; no group is ever empty.
func Chunk(ids []string, size int) [][]string {
	if len(ids) == 0 || size <= 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
