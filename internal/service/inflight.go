package service

import (
	"sync"

	"handsaround/internal/domain"
)

// InFlight rejects a second submission of an action while the first is still running.
type InFlight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{running: make(map[string]struct{})}
}

// Begin claims key. The returned release must be called when the action completes.
func (f *InFlight) Begin(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.running[key]; busy {
		return nil, domain.ErrInFlight
	}
	f.running[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.running, key)
			f.mu.Unlock()
		})
	}, nil
}

// Busy reports whether key is currently claimed.
func (f *InFlight) Busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.running[key]
	return busy
}
