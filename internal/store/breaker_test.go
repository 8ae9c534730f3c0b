package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type failingStore struct {
	err   error
	calls int
}

func (f *failingStore) FetchAll(ctx context.Context) ([]weather.Reading, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) FetchRecent(ctx context.Context, n int) ([]weather.Reading, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) FetchByYear(ctx context.Context, year string) ([]weather.Reading, error) {
	f.calls++
	return nil, f.err
}

func (f *failingStore) Insert(ctx context.Context, r weather.Reading) error {
	f.calls++
	return f.err
}

func TestBreaker_PassesThroughKinds(t *testing.T) {
	next := &failingStore{err: &Error{Kind: KindAuth, Op: "fetch all", Err: errors.New("access denied")}}
	b := NewBreaker(next, BreakerSettings{Failures: 10, Timeout: time.Minute})

	_, err := b.FetchAll(context.Background())
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindAuth, kind)
}

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	next := &failingStore{err: &Error{Kind: KindOther, Op: "fetch recent", Err: errors.New("connection refused")}}
	b := NewBreaker(next, BreakerSettings{Failures: 2, Timeout: time.Minute})
	ctx := context.Background()

	_, _ = b.FetchRecent(ctx, 10)
	_, _ = b.FetchRecent(ctx, 10)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, "open", b.State())

	_, err := b.FetchRecent(ctx, 10)
	assert.Equal(t, 2, next.calls, "open circuit must not reach the store")
	assert.ErrorIs(t, err, ErrCircuitOpen)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindOther, kind)
}

func TestBreaker_OpenCircuitKeepsFailureKind(t *testing.T) {
	tests := []Kind{KindAuth, KindSchema}

	for _, want := range tests {
		t.Run(want.String(), func(t *testing.T) {
			next := &failingStore{err: &Error{Kind: want, Op: "fetch all", Err: errors.New("rejected")}}
			b := NewBreaker(next, BreakerSettings{Timeout: time.Minute})
			ctx := context.Background()

			for i := 0; i < 7; i++ {
				_, err := b.FetchAll(ctx)
				kind, ok := KindOf(err)
				require.True(t, ok)
				assert.Equal(t, want, kind, "call %d", i+1)
			}
			assert.Equal(t, 5, next.calls)

			_, err := b.FetchAll(ctx)
			assert.ErrorIs(t, err, ErrCircuitOpen)
		})
	}
}

func TestBreaker_ReturnsRows(t *testing.T) {
	mem := NewMemoryStore(0)
	b := NewBreaker(mem, BreakerSettings{})
	ctx := context.Background()

	require.NoError(t, b.Insert(ctx, reading("2016-01-01 00:00:00", "", 3)))
	rows, err := b.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
