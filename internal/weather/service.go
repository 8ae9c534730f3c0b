package weather

import (
	"context"
	"fmt"

	"github.com/i474232898/weather-dashboard/internal/logger"
)

// Service runs the read-clean half of a recomputation against a Store.
type Service struct {
	store Store
	l     *logger.Logger
}

// NewService creates a new Service.
func NewService(store Store, l *logger.Logger) *Service {
	return &Service{
		store: store,
		l:     l,
	}
}

// Load fetches the rows selected by w and cleans them. Store and parse errors
// are returned unchanged so callers can inspect them with errors.As.
func (s *Service) Load(ctx context.Context, w Window) ([]Reading, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}

	rows, err := s.fetch(ctx, w)
	if err != nil {
		return nil, err
	}

	cleaned, err := Clean(rows)
	if err != nil {
		return nil, err
	}

	s.l.Debug("loaded readings", map[string]any{
		"window": w.String(),
		"rows":   len(cleaned),
	})
	return cleaned, nil
}

func (s *Service) fetch(ctx context.Context, w Window) ([]Reading, error) {
	switch w.Kind {
	case WindowRecent:
		return s.store.FetchRecent(ctx, w.N)
	case WindowYear:
		return s.store.FetchByYear(ctx, w.Year)
	default:
		return s.store.FetchAll(ctx)
	}
}

// Record validates and inserts one reading coming from the ingestion path.
func (s *Service) Record(ctx context.Context, r Reading) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid reading: %w", err)
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return err
	}
	s.l.Debug("recorded reading", map[string]any{"reading_time": r.ReadingTime})
	return nil
}
