package store

import (
	"context"
)

// DriverMemory selects the in-process store instead of a database.
const DriverMemory = "memory"

// Options selects and tunes the row store backend.
type Options struct {
	Driver      string
	DSN         string
	Pool        PoolConfig
	AutoMigrate bool
	Breaker     BreakerSettings
}

// New opens the backend named by opts.Driver behind a circuit breaker. The
// returned function releases the backend.
func New(ctx context.Context, opts Options) (*Breaker, func() error, error) {
	if opts.Driver == DriverMemory {
		return NewBreaker(NewMemoryStore(0), opts.Breaker), func() error { return nil }, nil
	}

	s, err := Open(ctx, opts.Driver, opts.DSN, opts.Pool)
	if err != nil {
		return nil, nil, err
	}

	if opts.AutoMigrate {
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, nil, err
		}
	}
	return NewBreaker(s, opts.Breaker), s.Close, nil
}
