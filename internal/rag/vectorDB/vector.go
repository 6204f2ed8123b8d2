package vectorDB

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/postgres"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/internal/rag/vectorDB/qdrantDB"
)

var ErrBackendUnavailable = errors.New("vector backend unavailable")

// NewVectorStore picks where chunk vectors are written. pgvector shares the document database.
func NewVectorStore(ctx context.Context, backend config.VectorBackend, db *sql.DB) (documentModel.VectorStore, error) {
	switch backend {
	case config.BackendPgvector, "":
		if db == nil {
			return nil, fmt.Errorf("%w: pgvector needs a database", ErrBackendUnavailable)
		}
		return postgres.NewVectorStore(db), nil
	case config.BackendQdrant:
		holder := qdrantDB.GetQuadrantClient(ctx)
		if holder == nil {
			return nil, fmt.Errorf("%w: qdrant", ErrBackendUnavailable)
		}
		return holder, nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", backend)
	}
}
