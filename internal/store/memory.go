package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/i474232898/weather-tagger/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory record store. Records are kept
// in insertion order; listings sort a filtered copy.
type MemoryStore struct {
	mu sync.RWMutex

	records []weather.Record
	// key: record id, value: index into records
	index map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[string]int),
	}
}

// Create assigns a fresh uuid and appends the record.
func (s *MemoryStore) Create(_ context.Context, rec weather.Record) (weather.Record, error) {
	rec.ID = uuid.New().String()
	rec.Tags = cloneTags(rec.Tags)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.index[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return copyRecord(rec), nil
}

// List filters, orders by date descending and paginates.
func (s *MemoryStore) List(_ context.Context, q weather.ListQuery) ([]weather.Record, int, error) {
	s.mu.RLock()
	var matched []weather.Record
	// Walk newest insertion first so equal dates list the latest record first.
	for i := len(s.records) - 1; i >= 0; i-- {
		if q.Filter.Match(s.records[i]) {
			matched = append(matched, copyRecord(s.records[i]))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})

	total := len(matched)
	start := q.Offset()
	if start >= total {
		return []weather.Record{}, total, nil
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// UpdateTags replaces the tags of the record with the given id.
func (s *MemoryStore) UpdateTags(_ context.Context, id string, tags []string) (weather.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return weather.Record{}, weather.ErrNotFound
	}
	s.records[i].Tags = cloneTags(tags)
	return copyRecord(s.records[i]), nil
}

func (s *MemoryStore) Close() error { return nil }

func copyRecord(r weather.Record) weather.Record {
	r.Tags = cloneTags(r.Tags)
	return r
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
