package store

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Breaker decorates a weather.Store with a circuit breaker so that an
// unreachable database fails panels fast instead of piling up blocked reads.
// It never retries.
type Breaker struct {
	next    weather.Store
	circuit *gobreaker.CircuitBreaker

	// kind of the most recent store failure, reported while the circuit is open
	lastKind atomic.Int32
}

// BreakerSettings tunes the circuit breaker.
type BreakerSettings struct {
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// consecutive failures that open the circuit
	Failures uint32
}

// NewBreaker wraps next.
func NewBreaker(next weather.Store, st BreakerSettings) *Breaker {
	if st.Failures == 0 {
		st.Failures = 5
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "row-store",
		MaxRequests: st.MaxRequests,
		Interval:    st.Interval,
		Timeout:     st.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= st.Failures
		},
		IsSuccessful: func(err error) bool {
			// caller cancellations say nothing about the store's health
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	return &Breaker{next: next, circuit: cb}
}

// State reports the breaker state, e.g. for health checks.
func (b *Breaker) State() string {
	return b.circuit.State().String()
}

func (b *Breaker) FetchAll(ctx context.Context) ([]weather.Reading, error) {
	return b.read("fetch all", func() ([]weather.Reading, error) {
		return b.next.FetchAll(ctx)
	})
}

func (b *Breaker) FetchRecent(ctx context.Context, n int) ([]weather.Reading, error) {
	return b.read("fetch recent", func() ([]weather.Reading, error) {
		return b.next.FetchRecent(ctx, n)
	})
}

func (b *Breaker) FetchByYear(ctx context.Context, year string) ([]weather.Reading, error) {
	return b.read("fetch by year", func() ([]weather.Reading, error) {
		return b.next.FetchByYear(ctx, year)
	})
}

func (b *Breaker) Insert(ctx context.Context, r weather.Reading) error {
	_, err := b.execute("insert", func() (interface{}, error) {
		return nil, b.next.Insert(ctx, r)
	})
	return err
}

func (b *Breaker) read(op string, fn func() ([]weather.Reading, error)) ([]weather.Reading, error) {
	result, err := b.execute(op, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	rows, _ := result.([]weather.Reading)
	return rows, nil
}

func (b *Breaker) execute(op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.circuit.Execute(func() (interface{}, error) {
		res, err := fn()
		if err != nil && !errors.Is(err, context.Canceled) {
			kind, _ := KindOf(err)
			b.lastKind.Store(int32(kind))
		}
		return res, err
	})
	return result, b.translate(op, err)
}

// translate turns a rejected call into an Error carrying the kind of the
// failure that opened the circuit.
func (b *Breaker) translate(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &Error{Kind: Kind(b.lastKind.Load()), Op: op, Err: errors.Join(ErrCircuitOpen, err)}
	}
	return err
}
