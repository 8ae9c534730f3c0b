package weather

import "context"

// Store is the contract every row store accessor satisfies. Reads return rows
// exactly as stored; cleaning happens in the Service.
type Store interface {
	FetchAll(ctx context.Context) ([]Reading, error)
	FetchRecent(ctx context.Context, n int) ([]Reading, error)
	FetchByYear(ctx context.Context, year string) ([]Reading, error)
	Insert(ctx context.Context, r Reading) error
}
