package store

import (
	"context"
	"sync"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/domain/jobModel"
)

type InMemoryEventStore struct {
	lock   *sync.RWMutex
	events map[string][]jobModel.Event
}

func InitInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		lock:   new(sync.RWMutex),
		events: make(map[string][]jobModel.Event),
	}
}

func (store *InMemoryEventStore) Append(ctx context.Context, event jobModel.Event) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	list := append(store.events[event.DocumentId], event)
	if len(list) > config.RecentEventCount*4 {
		list = list[len(list)-config.RecentEventCount*4:]
	}
	store.events[event.DocumentId] = list
	return nil
}

func (store *InMemoryEventStore) Recent(ctx context.Context, documentId string) ([]jobModel.Event, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	list := store.events[documentId]
	if len(list) > config.RecentEventCount {
		list = list[len(list)-config.RecentEventCount:]
	}
	out := make([]jobModel.Event, len(list))
	copy(out, list)
	return out, nil
}
