// Package ledger tracks external-call cost for one screening session.
package ledger

import (
	"sort"
	"sync"
)

// Entry is the accumulated cost for one provider/capability pair.
type Entry struct {
	Provider   string
	Capability string
	Calls      int
	USD        float64
}

// Ledger is a session-scoped running total of per-call cost, partitioned by
// provider and capability. It only grows between explicit resets and is safe
// for concurrent increments from the batch worker pool.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]*Entry)}
}

// Add records one call's cost under provider/capability.
func (l *Ledger) Add(provider, capability string, usd float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := provider + "/" + capability
	e, ok := l.entries[key]
	if !ok {
		e = &Entry{Provider: provider, Capability: capability}
		l.entries[key] = e
	}
	e.Calls++
	e.USD += usd
}

// Total returns the session cost across all providers.
func (l *Ledger) Total() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	var total float64
	for _, e := range l.entries {
		total += e.USD
	}
	return total
}

// Calls returns the total number of recorded calls.
func (l *Ledger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	var calls int
	for _, e := range l.entries {
		calls += e.Calls
	}
	return calls
}

// ByCapability returns a snapshot of all entries, ordered by provider then
// capability for stable reporting.
func (l *Ledger) ByCapability() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Capability < out[j].Capability
	})
	return out
}

// Reset clears the ledger. Only called on explicit session reset.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = make(map[string]*Entry)
}
