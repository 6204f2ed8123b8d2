package redisStore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

const (
	pingTimeout = 3 * time.Second
	ioTimeout   = 30 * time.Second
)

var (
	instances = make(map[int]*Store)
	mu        sync.Mutex
	closeOnce sync.Once
	logger    = logger_i.NewLogger("Redis Store")
)

// Store is a client bound to one logical redis DB
type Store struct {
	client *redis.Client
	DB     int
}

// GetRedisStore returns one shared client per redis DB index, or nil when redis is unreachable.
// Clients are closed when ctx ends.
func GetRedisStore(ctx context.Context, db int) *Store {
	mu.Lock()
	defer mu.Unlock()

	if s, ok := instances[db]; ok {
		return s
	}

	log := logger.With("db", db)
	opts, err := clientOptions(db)
	if err != nil {
		log.Error("Bad redis configuration", "error", err)
		return nil
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Error("Redis is offline", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	log.Info("Redis store ready", "addr", opts.Addr)

	s := &Store{client: client, DB: db}
	instances[db] = s
	closeOnce.Do(func() { go closeOnDone(ctx) })
	return s
}

// clientOptions prefers REDIS_URL (hosted redis with tls and credentials) over REDIS_ADDR
func clientOptions(db int) (*redis.Options, error) {
	var opts *redis.Options
	if config.RedisURL != "" {
		parsed, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
		}
	}
	if opts.Addr == "" {
		opts.Addr = config.RedisAddr
	}
	opts.DB = db
	opts.ContextTimeoutEnabled = true
	opts.ReadTimeout = ioTimeout
	opts.WriteTimeout = ioTimeout
	return opts, nil
}

func closeOnDone(ctx context.Context) {
	<-ctx.Done()
	mu.Lock()
	defer mu.Unlock()
	for db, s := range instances {
		if err := s.client.Close(); err != nil {
			logger.Error("Error closing redis client", "db", db, "error", err)
		}
		delete(instances, db)
	}
	logger.Info("Redis stores closed")
}

// NewTestStore wraps an existing client, used with miniredis
func NewTestStore(client *redis.Client) *Store {
	return &Store{client: client}
}
