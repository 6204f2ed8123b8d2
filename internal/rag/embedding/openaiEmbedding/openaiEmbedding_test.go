package openaiEmbedding

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/akolanti/mindsync/internal/rag/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDims = 8

// hashVector is a deterministic stand in for a real embedding
func hashVector(text string) []float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	v := make([]float64, testDims)
	for i := range v {
		v[i] = float64((seed>>(uint(i)*8))&0xff) / 255
	}
	return v
}

type embeddingRequest struct {
	Input      []string `json:"input"`
	Model      string   `json:"model"`
	Dimensions int      `json:"dimensions"`
}

// fakeOpenAI answers /embeddings in reverse order so the client has to sort by index
func fakeOpenAI(t *testing.T, drop int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Input[0] == "explode" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}

		data := make([]map[string]any, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= drop; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": hashVector(req.Input[i]),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewOpenAIEmbedder(Options{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1/",
		Dimensions: testDims,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return c
}

func TestEmbedBatch_PreservesInputOrder(t *testing.T) {
	srv := fakeOpenAI(t, 0)
	defer srv.Close()
	c := newTestClient(t, srv)

	inputs := []string{"alpha", "bravo", "charlie", "delta"}
	vectors, err := c.EmbedBatch(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, vectors, len(inputs))

	for i, in := range inputs {
		want := hashVector(in)
		for k := range want {
			assert.InDelta(t, want[k], vectors[i][k], 1e-6, "input %d (%s) dim %d", i, in, k)
		}
	}
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	srv := fakeOpenAI(t, 1)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	assert.ErrorIs(t, err, embedding.ErrCountMismatch)
}

func TestEmbedBatch_ProviderError(t *testing.T) {
	srv := fakeOpenAI(t, 0)
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.EmbedBatch(context.Background(), []string{"explode"})
	assert.Error(t, err)
}

func TestEmbedBatch_RateLimitedIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()
	c := newTestClient(t, srv)

	_, err := c.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "a failed embedding call must reach the provider once")
}

func TestEmbedQuery(t *testing.T) {
	srv := fakeOpenAI(t, 0)
	defer srv.Close()
	c := newTestClient(t, srv)

	v, err := c.EmbedQuery(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Len(t, v, testDims)
}

func TestNewOpenAIEmbedder_NeedsKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(Options{})
	assert.Error(t, err)
}
