package config

import (
	"log/slog"
	"time"
)

const (
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, the job/event stores fall back to in-memory
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RateLimiterIdleTimeout          = 10 * time.Minute

	//chunking
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200

	//embeddings - text-embedding-3-small and gemini-embedding-001 both emit 1536 when asked
	EmbeddingOutputDimensionality int32 = 1536
	OpenAIEmbeddingModel                = "text-embedding-3-small"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	GoogleEmbedBatchLimit               = 100 //batchEmbedContents rejects more requests per call

	//vision ocr
	OpenAIVisionModel         = "gpt-4o-mini"
	GeminiVisionModel         = "gemini-2.5-flash"
	VisionMaxTokens     int64 = 4096
	ImageOCRConfidence        = 95
	PdfPageExtractLimit       = 10 * time.Second

	//uploads
	MaxUploadSize  = 10 << 20 //10mb
	StorageBucket  = "mindsync_storage"
	VectorTable    = "knowledge_base_chunks"
	QdrantCollName = "mindsync-chunks"

	//workers
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	IngestionTimeout                = 5 * time.Minute

	//serverTimeouts - process is synchronous so the write timeout covers a full run
	ReadTimeout            = 15 * time.Second
	WriteTimeout           = IngestionTimeout + 10*time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//storage
	DownloadTimeout   = 60 * time.Second
	UploadTimeout     = 2 * time.Minute
	PresignExpiration = 10 * time.Minute

	//vectorDB
	QdrantPort     = 6334 //grpc
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//postgres pool
	DBMaxOpenConns    = 20
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 30 * time.Minute
	DBConnMaxIdleTime = 10 * time.Minute
	DBPingTimeout     = 10 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore   = 0
	RedisEventStore = 1

	//redis timeouts
	RedisJobStoreTTL   = 24 * time.Hour
	RedisEventStoreTTL = 72 * time.Hour
	RecentEventCount   = 5
)
