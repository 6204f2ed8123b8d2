package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/google/uuid"
)

type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) InsertDocument(ctx context.Context, doc documentModel.Document) (documentModel.Document, error) {
	if doc.Id == "" {
		doc.Id = uuid.New().String()
	}
	if doc.Status == "" {
		doc.Status = documentModel.StatusUploaded
	}
	const q = `
		INSERT INTO documents (id, user_whatsapp_number, file_name, file_url, mime_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uploaded_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, q,
		doc.Id, doc.UserId, doc.FileName, doc.FileURL, doc.MimeType, string(doc.Status),
	).Scan(&doc.UploadedAt, &doc.UpdatedAt)
	if err != nil {
		return documentModel.Document{}, fmt.Errorf("insert document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) GetDocument(ctx context.Context, id string) (documentModel.Document, error) {
	if _, err := uuid.Parse(id); err != nil {
		return documentModel.Document{}, documentModel.ErrNotFound
	}
	const q = `
		SELECT id, user_whatsapp_number, file_name, file_url, mime_type, status, uploaded_at, updated_at
		FROM documents
		WHERE id = $1
	`
	var d documentModel.Document
	var status string
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&d.Id, &d.UserId, &d.FileName, &d.FileURL, &d.MimeType, &status, &d.UploadedAt, &d.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return documentModel.Document{}, documentModel.ErrNotFound
	}
	if err != nil {
		return documentModel.Document{}, fmt.Errorf("get document: %w", err)
	}
	d.Status = documentModel.Status(status)
	return d, nil
}

func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, status documentModel.Status) error {
	if _, err := uuid.Parse(id); err != nil {
		return documentModel.ErrNotFound
	}
	const q = `
		UPDATE documents
		SET status = $2, updated_at = now()
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, q, id, string(status))
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return documentModel.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) ClaimForProcessing(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return documentModel.ErrNotFound
	}
	const q = `
		UPDATE documents
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
	`
	res, err := s.db.ExecContext(ctx, q, id, string(documentModel.StatusProcessing), string(documentModel.StatusUploaded))
	if err != nil {
		return fmt.Errorf("claim document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}

	// nothing swapped - find out whether the row is missing or busy
	if _, err := s.GetDocument(ctx, id); err != nil {
		return err
	}
	return documentModel.ErrAlreadyClaimed
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return documentModel.ErrNotFound
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return documentModel.ErrNotFound
	}
	return nil
}
