package models

import (
	"context"
	"slices"
	"sync"
)

// MemoryRepo keeps events in process memory. It backs local development and
// tests; nothing survives a restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	events map[string]*Event
}

func MemoryNewRepo() *MemoryRepo {
	return &MemoryRepo{
		events: make(map[string]*Event),
	}
}

func (m *MemoryRepo) Get(ctx context.Context, id string) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	event, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return event.Clone(), nil
}

func (m *MemoryRepo) Insert(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := event.Clone()
	stored.normalize()
	m.events[event.ID] = stored
	return nil
}

func (m *MemoryRepo) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.events, id)
	return nil
}

func (m *MemoryRepo) Values(ctx context.Context) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.events))
	for id := range m.events {
		keys = append(keys, id)
	}
	slices.Sort(keys)

	events := make([]*Event, 0, len(keys))
	for _, id := range keys {
		events = append(events, m.events[id].Clone())
	}
	return events, nil
}
