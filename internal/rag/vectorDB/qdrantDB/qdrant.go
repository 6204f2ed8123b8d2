package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/documentModel"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

var logger = logger_i.NewLogger("Qdrant")
var quadrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

// ClientHolder stores chunk vectors as qdrant points in one collection shared by all documents
type ClientHolder struct {
	QObj           *qdrant.Client
	collectionName string
}

// GetQuadrantClient returns the shared client, or nil when qdrant is unreachable
func GetQuadrantClient(ctx context.Context) *ClientHolder {
	once.Do(func() {
		res := newClient(ctx)
		if res != nil {
			quadrantInstance = res
			go closeQdrant(ctx, quadrantInstance)
		}
	})

	if quadrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:           quadrantInstance,
		collectionName: config.QdrantCollName,
	}
}

func newClient(ctx context.Context) *qdrant.Client {
	host := config.QdrantHost
	port := config.QdrantPort
	if p, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		port = p
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil
	}

	if err = createCollection(ctx, client, config.QdrantCollName); err != nil {
		logger.Error("could not create collection", "collectionName", config.QdrantCollName, "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info("Qdrant ready", "host", host, "port", port)
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

// InsertRows upserts every row in one request and waits for it to be applied
func (db *ClientHolder) InsertRows(ctx context.Context, rows []documentModel.VectorRow) error {
	if len(rows) == 0 {
		return nil
	}
	points, err := toPoints(rows)
	if err != nil {
		return err
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) CountByDocument(ctx context.Context, documentId string) (int, error) {
	n, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("document_id", documentId)},
		},
		Exact: qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	return int(n), nil
}

func toPoints(rows []documentModel.VectorRow) ([]*qdrant.PointStruct, error) {
	points := make([]*qdrant.PointStruct, len(rows))
	for i, row := range rows {
		if len(row.Embedding) != int(dimension) {
			return nil, fmt.Errorf("chunk %d has %d dimensions, collection expects %d", row.Metadata.ChunkIndex, len(row.Embedding), dimension)
		}
		id := row.Id
		if id == "" {
			id = uuid.New().String()
		}
		payload, err := qdrant.TryValueMap(rowPayload(row))
		if err != nil {
			return nil, fmt.Errorf("payload for chunk %d: %w", row.Metadata.ChunkIndex, err)
		}
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(row.Embedding...),
			Payload: payload,
		}
	}
	return points, nil
}

// rowPayload flattens a row into types the qdrant value map accepts
func rowPayload(row documentModel.VectorRow) map[string]any {
	m := row.Metadata
	var pageCount any
	if m.DocumentMetadata.PageCount != nil {
		pageCount = int64(*m.DocumentMetadata.PageCount)
	}
	return map[string]any{
		"document_id":          row.DocumentId,
		"user_whatsapp_number": row.UserId,
		"content":              row.Content,
		"metadata": map[string]any{
			"file_name":    m.FileName,
			"chunk_index":  int64(m.ChunkIndex),
			"start_char":   int64(m.StartChar),
			"end_char":     int64(m.EndChar),
			"word_count":   int64(m.WordCount),
			"total_chunks": int64(m.TotalChunks),
			"document_metadata": map[string]any{
				"page_count":       pageCount,
				"total_word_count": int64(m.DocumentMetadata.TotalWordCount),
				"total_char_count": int64(m.DocumentMetadata.TotalCharCount),
			},
		},
	}
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	// status reads filter on document_id
	_, err = client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: collectionName,
		FieldName:      "document_id",
		FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}
