package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store,
// used for demos and tests. Rows keep insertion order and get increasing ids.
type MemoryStore struct {
	mu sync.RWMutex

	rows   []weather.Reading
	nextID int64

	// max number of rows kept, oldest dropped first (0 = unlimited)
	maxHistory int
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		nextID:     1,
		maxHistory: maxHistory,
	}
}

// Insert appends a reading and enforces retention.
func (s *MemoryStore) Insert(ctx context.Context, r weather.Reading) error {
	if err := ctx.Err(); err != nil {
		return wrap("insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, r)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.rows) > s.maxHistory {
		over := len(s.rows) - s.maxHistory
		s.rows = s.rows[over:]
	}
	return nil
}

// FetchAll returns a copy of every stored row.
func (s *MemoryStore) FetchAll(ctx context.Context) ([]weather.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("fetch all", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Reading, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// FetchRecent returns at most n rows, newest first.
func (s *MemoryStore) FetchRecent(ctx context.Context, n int) ([]weather.Reading, error) {
	if n <= 0 {
		return nil, &Error{Kind: KindOther, Op: "fetch recent", Err: fmt.Errorf("row count must be positive, got %d", n)}
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap("fetch recent", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.rows) {
		n = len(s.rows)
	}
	out := make([]weather.Reading, 0, n)
	for i := len(s.rows) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.rows[i])
	}
	return out, nil
}

// FetchByYear returns the rows whose UTC timestamp falls in the given year.
func (s *MemoryStore) FetchByYear(ctx context.Context, year string) ([]weather.Reading, error) {
	y, err := weather.ParseYear(year)
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: "fetch by year", Err: err}
	}

	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterYear(all, year, y), nil
}
