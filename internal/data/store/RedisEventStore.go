package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/redisStore"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

const eventKeyPrefix = "ingest:events:"

// RedisEventStore keeps a short capped log of stage transitions per document
type RedisEventStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisEventStore(ctx context.Context) *RedisEventStore {
	s := redisStore.GetRedisStore(ctx, config.RedisEventStore)
	if s == nil {
		return nil
	}
	return NewRedisEventStore(s)
}

func NewRedisEventStore(s *redisStore.Store) *RedisEventStore {
	return &RedisEventStore{
		store:  s,
		logger: logger_i.NewLogger("EventStore"),
	}
}

func (s *RedisEventStore) Append(ctx context.Context, event jobModel.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	// keep a few more than we show so a burst of retries doesn't hide the failure
	err = s.store.ListPush(ctx, eventKeyPrefix+event.DocumentId, data, config.RecentEventCount*4, config.RedisEventStoreTTL)
	if err != nil {
		s.logger.WithContext(ctx).Error("error saving event", "documentId", event.DocumentId, "error", err)
	}
	return err
}

func (s *RedisEventStore) Recent(ctx context.Context, documentId string) ([]jobModel.Event, error) {
	raw, err := s.store.ListGetLast(ctx, eventKeyPrefix+documentId, config.RecentEventCount)
	if err != nil {
		return nil, err
	}
	events := make([]jobModel.Event, 0, len(raw))
	for _, r := range raw {
		var e jobModel.Event
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			s.logger.Warn("skipping malformed event", "documentId", documentId, "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}
