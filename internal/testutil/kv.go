package testutil

import (
	"context"
	"errors"
	"sync"
)

// ErrInjected is returned by FailingKV when a failure is armed.
var ErrInjected = errors.New("injected persistence failure")

// KV is the persistence contract FailingKV wraps.
type KV interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
}

// FailingKV wraps a KV and fails reads or writes on demand.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FailingKV struct {
	KV

	mu       sync.Mutex
	failGets bool
	failSets bool
	setByKey map[string]int
}

// NewFailingKV wraps inner with failures disarmed.
func NewFailingKV(inner KV) *FailingKV {
	return &FailingKV{KV: inner, setByKey: make(map[string]int)}
}

// FailGets arms or disarms read failures.
func (f *FailingKV) FailGets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGets = fail
}

// FailSets arms or disarms write failures (Set and Remove).
func (f *FailingKV) FailSets(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSets = fail
}

// SetCalls returns how many successful Set calls were made for key.
func (f *FailingKV) SetCalls(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setByKey[key]
}

// Get implements KV.
func (f *FailingKV) Get(ctx context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	fail := f.failGets
	f.mu.Unlock()
	if fail {
		return false, ErrInjected
	}
	return f.KV.Get(ctx, key, dst)
}

// Set implements KV.
func (f *FailingKV) Set(ctx context.Context, key string, value any) error {
	f.mu.Lock()
	fail := f.failSets
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := f.KV.Set(ctx, key, value); err != nil {
		return err
	}
	f.mu.Lock()
	f.setByKey[key]++
	f.mu.Unlock()
	return nil
}

// Remove implements KV.
func (f *FailingKV) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failSets
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.KV.Remove(ctx, key)
}
