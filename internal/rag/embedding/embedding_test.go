package embedding

import (
	"errors"
	"testing"
)

func TestCheckBatch(t *testing.T) {
	tests := []struct {
		name    string
		inputs  int
		vectors [][]float32
		dim     int
		wantErr bool
	}{
		{"ok", 2, [][]float32{{1, 2}, {3, 4}}, 2, false},
		{"any dimension", 1, [][]float32{{1, 2, 3}}, 0, false},
		{"short", 3, [][]float32{{1, 2}, {3, 4}}, 2, true},
		{"empty vector", 2, [][]float32{{1, 2}, nil}, 2, true},
		{"wrong size", 1, [][]float32{{1}}, 2, true},
	}
	for _, tt := range tests {
		err := CheckBatch(tt.inputs, tt.vectors, tt.dim)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: CheckBatch error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
	if err := CheckBatch(3, [][]float32{{1}}, 0); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("expected ErrCountMismatch, got %v", err)
	}
}
