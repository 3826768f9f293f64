package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

// Memory is a process-local PlanCache used when no Redis address is
// configured, and in tests. A zero ttl means entries never expire.
type Memory struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	res       loan.Result
	expiresAt time.Time
}

var _ PlanCache = (*Memory)(nil)

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (loan.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return loan.Result{}, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return loan.Result{}, false
	}
	return e.res, true
}

func (m *Memory) Set(_ context.Context, key string, res loan.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl != 0 {
		expiresAt = time.Now().Add(m.ttl)
	}
	m.entries[key] = memoryEntry{res: res, expiresAt: expiresAt}
	return nil
}
