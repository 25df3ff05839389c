package payload_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-fcm/internal/payload"
)

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("token-%04d", i)
	}
	return ids
}

func TestChunk(t *testing.T) {
	t.Run("Empty input yields nil", func(t *testing.T) {
		assert.Nil(t, payload.Chunk(nil, payload.MaxRecipients))
		assert.Nil(t, payload.Chunk([]string{}, payload.MaxRecipients))
	})

	t.Run("At most one chunk up to the cap", func(t *testing.T) {
		for _, n := range []int{1, 2, payload.MaxRecipients} {
			chunks := payload.Chunk(makeIDs(n), payload.MaxRecipients)
			require.Len(t, chunks, 1, "n=%d", n)
			assert.Len(t, chunks[0], n)
		}
	})

	t.Run("Ceil division above the cap", func(t *testing.T) {
		chunks := payload.Chunk(makeIDs(2500), 1000)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 1000)
		assert.Len(t, chunks[1], 1000)
		assert.Len(t, chunks[2], 500)
	})

	t.Run("Concatenation preserves order and membership", func(t *testing.T) {
		ids := makeIDs(1001)
		chunks := payload.Chunk(ids, 1000)

		var flattened []string
		for _, chunk := range chunks {
			require.NotEmpty(t, chunk, "no chunk may be empty")
			flattened = append(flattened, chunk...)
		}
		assert.Equal(t, ids, flattened)
	})
}
