package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type AIProvider string
type VectorBackend string

const (
	ProviderOpenAI AIProvider = "openai"
	ProviderGemini AIProvider = "gemini"

	BackendPgvector VectorBackend = "pgvector"
	BackendQdrant   VectorBackend = "qdrant"
)

// values read from the environment (or a .env file) by Load
var (
	IS_PROD       bool
	AuthToken     string
	NoAuthBypass  bool
	RedisAddress  string
	RedisURL      string
	RedisPassword string
	CorsOrigins   []string

	DatabaseURL   string
	Provider      AIProvider
	Vectors       VectorBackend
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
	QdrantHost    string

	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3PublicBaseURL string
)

func Load() {
	_ = godotenv.Load()

	IS_PROD = getEnv("APP_ENV", "development") == "production"
	AuthToken = getEnv("AUTH_TOKEN", "")
	NoAuthBypass = getEnvBool("NO_AUTH_BYPASS", false)
	RedisAddress = getEnv("REDIS_ADDR", RedisAddr)
	RedisURL = getEnv("REDIS_URL", "")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	CorsOrigins = strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3001"), ",")

	DatabaseURL = getEnv("DATABASE_URL", "")
	Provider = AIProvider(strings.ToLower(getEnv("AI_PROVIDER", string(ProviderOpenAI))))
	Vectors = VectorBackend(strings.ToLower(getEnv("VECTOR_BACKEND", string(BackendPgvector))))
	OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	OpenAIBaseURL = getEnv("OPENAI_BASE_URL", "")
	GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	QdrantHost = getEnv("QDRANT_HOST", "localhost")

	S3Endpoint = getEnv("S3_ENDPOINT", "")
	S3Region = getEnv("S3_REGION", "ap-southeast-1")
	S3Bucket = getEnv("S3_BUCKET", StorageBucket)
	S3AccessKey = getEnv("S3_ACCESS_KEY", "")
	S3SecretKey = getEnv("S3_SECRET_KEY", "")
	S3PublicBaseURL = strings.TrimSuffix(getEnv("S3_PUBLIC_BASE_URL", ""), "/")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}
