package embedding

import (
	"context"
	"errors"
	"fmt"
)

var ErrCountMismatch = errors.New("embedding count does not match input count")

// Embedder turns text into fixed size vectors. EmbedBatch returns one vector per input, in input order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// CheckBatch verifies a provider answered every input with a non-empty vector of the expected size
func CheckBatch(inputs int, vectors [][]float32, dimension int) error {
	if len(vectors) != inputs {
		return fmt.Errorf("%w: got %d for %d inputs", ErrCountMismatch, len(vectors), inputs)
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("missing embedding for input %d", i)
		}
		if dimension > 0 && len(v) != dimension {
			return fmt.Errorf("embedding %d has %d dimensions, want %d", i, len(v), dimension)
		}
	}
	return nil
}
