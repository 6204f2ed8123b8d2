package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// VectorStore persists chunk rows into knowledge_base_chunks via pgvector
type VectorStore struct {
	db *sql.DB
}

func NewVectorStore(db *sql.DB) *VectorStore {
	return &VectorStore{db: db}
}

// InsertRows writes every row in one transaction, so a document is either fully persisted or not at all
func (s *VectorStore) InsertRows(ctx context.Context, rows []documentModel.VectorRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	const q = `
		INSERT INTO knowledge_base_chunks
			(id, document_id, user_whatsapp_number, content, embedding, metadata)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range rows {
		row := &rows[i]
		meta, err := json.Marshal(row.Metadata)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode metadata for chunk %d: %w", row.Metadata.ChunkIndex, err)
		}
		if row.Id == "" {
			row.Id = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx,
			row.Id, row.DocumentId, row.UserId, row.Content, pgvector.NewVector(row.Embedding), string(meta),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert chunk %d: %w", row.Metadata.ChunkIndex, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chunks: %w", err)
	}
	return nil
}

func (s *VectorStore) CountByDocument(ctx context.Context, documentId string) (int, error) {
	if _, err := uuid.Parse(documentId); err != nil {
		return 0, nil
	}
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM knowledge_base_chunks WHERE document_id = $1`, documentId).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}
