package kv

import "context"

// KV is a JSON key/value persistence service.
//
// Get decodes the value stored under key into dst and reports whether the
// key existed. A missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}
