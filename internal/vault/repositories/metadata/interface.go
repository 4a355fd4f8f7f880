package metadata

import (
	"context"
)

// Repository exposes the app_metadata key/value table used for vault
// bookkeeping (schema markers, non-secret settings).
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
