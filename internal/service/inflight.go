package service

import "sync"

// inflight tracks which (order, action) controls have a mutation running.
type inflight struct {
	mu      sync.Mutex
	running map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{running: make(map[string]struct{})}
}

func inflightKey(orderID string, action Action) string {
	return orderID + "/" + string(action)
}

// acquire returns false if the control is already busy.
func (f *inflight) acquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.running[key]; busy {
		return false
	}
	f.running[key] = struct{}{}
	return true
}

func (f *inflight) release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.running, key)
}
