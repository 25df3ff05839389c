package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywideclouds/go-fcm/internal/transport"
)

func TestDispatcher_PreservesInputOrder(t *testing.T) {
	// Echo each payload back after a delay that shrinks with the payload
	// index, so completion order is the reverse of submission order.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		switch string(body) {
		case "chunk-0":
			time.Sleep(60 * time.Millisecond)
		case "chunk-1":
			time.Sleep(30 * time.Millisecond)
		}
		_, _ = w.Write(body)
	}))
	defer server.Close()

	dispatcher := transport.NewDispatcher(newSender(t, 0), newTestLogger())
	payloads := [][]byte{[]byte("chunk-0"), []byte("chunk-1"), []byte("chunk-2")}

	responses, err := dispatcher.Dispatch(context.Background(), server.URL, payloads)
	require.NoError(t, err)

	require.Len(t, responses, 3)
	for i, resp := range responses {
		assert.Equal(t, payloads[i], resp.Body)
	}
}

func TestDispatcher_FailsTogether(t *testing.T) {
	dispatcher := transport.NewDispatcher(newSender(t, 0), newTestLogger())
	payloads := [][]byte{[]byte("a"), []byte("b")}

	responses, err := dispatcher.Dispatch(context.Background(), "http://127.0.0.1:1", payloads)
	require.Error(t, err)
	assert.Nil(t, responses, "no partial results on failure")
}

func TestDispatcher_EmptyPayloads(t *testing.T) {
	dispatcher := transport.NewDispatcher(newSender(t, 0), newTestLogger())

	responses, err := dispatcher.Dispatch(context.Background(), "http://unused.invalid", nil)
	require.NoError(t, err)
	assert.Empty(t, responses)
}
