package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/data/store"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStores_RecentIsCappedAndOrdered(t *testing.T) {
	_, internalStore := newMiniRedisStore(t)

	stores := map[string]jobModel.EventStore{
		"redis":    store.NewRedisEventStore(internalStore),
		"inMemory": store.InitInMemoryEventStore(),
	}

	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			docID := "doc-" + name
			for i := 0; i < 8; i++ {
				err := s.Append(ctx, jobModel.Event{
					DocumentId: docID,
					Stage:      jobModel.DownloadStep,
					Ok:         true,
					Message:    fmt.Sprintf("event-%d", i),
					At:         time.Unix(int64(i), 0).UTC(),
				})
				require.NoError(t, err)
			}

			recent, err := s.Recent(ctx, docID)
			require.NoError(t, err)
			require.Len(t, recent, config.RecentEventCount)
			assert.Equal(t, "event-3", recent[0].Message)
			assert.Equal(t, "event-7", recent[len(recent)-1].Message)

			other, err := s.Recent(ctx, "unknown")
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	}
}

func TestRedisEventStore_SetsTTL(t *testing.T) {
	mr, internalStore := newMiniRedisStore(t)
	s := store.NewRedisEventStore(internalStore)

	require.NoError(t, s.Append(context.Background(), jobModel.Event{DocumentId: "d1", Stage: jobModel.ClaimStep, Ok: true}))
	assert.Equal(t, config.RedisEventStoreTTL, mr.TTL("ingest:events:d1"))
}
