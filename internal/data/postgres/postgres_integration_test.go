//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "mindsync",
			"POSTGRES_PASSWORD": "mindsync",
			"POSTGRES_DB":       "mindsync",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://mindsync:mindsync@%s:%s/mindsync?sslmode=disable", host, port.Port())
}

func vec(seed float32) []float32 {
	v := make([]float32, 1536)
	for i := range v {
		v[i] = seed
	}
	return v
}

func TestDocumentAndVectorStore(t *testing.T) {
	dsn := startPostgres(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)

	docs := NewDocumentStore(db)
	vectors := NewVectorStore(db)

	doc, err := docs.InsertDocument(ctx, documentModel.Document{
		UserId:   "628123",
		FileName: "notes.txt",
		FileURL:  "http://files/mindsync_storage/628123/notes.txt",
		MimeType: "text/plain",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Id)
	assert.Equal(t, documentModel.StatusUploaded, doc.Status)
	assert.False(t, doc.UploadedAt.IsZero())

	t.Run("claim is a compare and swap", func(t *testing.T) {
		require.NoError(t, docs.ClaimForProcessing(ctx, doc.Id))
		err := docs.ClaimForProcessing(ctx, doc.Id)
		assert.True(t, errors.Is(err, documentModel.ErrAlreadyClaimed), "got %v", err)

		got, err := docs.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, documentModel.StatusProcessing, got.Status)
	})

	t.Run("unknown ids", func(t *testing.T) {
		assert.ErrorIs(t, docs.ClaimForProcessing(ctx, "5e0c4c4e-0000-4000-8000-000000000000"), documentModel.ErrNotFound)
		assert.ErrorIs(t, docs.ClaimForProcessing(ctx, "not-a-uuid"), documentModel.ErrNotFound)
		_, err := docs.GetDocument(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, documentModel.ErrNotFound)
	})

	t.Run("rows are inserted together", func(t *testing.T) {
		pages := 2
		rows := make([]documentModel.VectorRow, 3)
		for i := range rows {
			rows[i] = documentModel.VectorRow{
				DocumentId: doc.Id,
				UserId:     doc.UserId,
				Content:    fmt.Sprintf("chunk %d", i),
				Embedding:  vec(float32(i + 1)),
				Metadata: documentModel.VectorMetadata{
					DocumentId:  doc.Id,
					FileName:    doc.FileName,
					ChunkIndex:  i,
					TotalChunks: 3,
					DocumentMetadata: documentModel.DocumentAggStats{
						PageCount: &pages,
					},
				},
			}
		}
		require.NoError(t, vectors.InsertRows(ctx, rows))

		n, err := vectors.CountByDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("bad dimension rolls back the batch", func(t *testing.T) {
		rows := []documentModel.VectorRow{
			{DocumentId: doc.Id, UserId: doc.UserId, Content: "ok", Embedding: vec(1)},
			{DocumentId: doc.Id, UserId: doc.UserId, Content: "short", Embedding: []float32{1, 2}},
		}
		assert.Error(t, vectors.InsertRows(ctx, rows))

		n, err := vectors.CountByDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("status update and delete cascade", func(t *testing.T) {
		require.NoError(t, docs.UpdateStatus(ctx, doc.Id, documentModel.StatusCompleted))
		got, err := docs.GetDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Equal(t, documentModel.StatusCompleted, got.Status)

		require.NoError(t, docs.DeleteDocument(ctx, doc.Id))
		n, err := vectors.CountByDocument(ctx, doc.Id)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.ErrorIs(t, docs.UpdateStatus(ctx, doc.Id, documentModel.StatusError), documentModel.ErrNotFound)
	})
}
