package transfer

// registry.go is the in-memory status registry. One mutex guards the whole
// mapping: reads and writes to any entry are mutually exclusive across all
// transfers. The registry is never the bottleneck (the slow part of a
// transfer is the store I/O) and a single critical section keeps the
// atomicity story trivial: a mutator function runs entirely under the lock,
// so readers never observe a half-updated record.
//
// The registry does not survive process restart. Statuses are data about
// this process's transfers, not durable state.

import (
	"fmt"
	"sync"
	"time"
)

// Registry is a concurrency-safe mapping from transfer identifier to status.
type Registry struct {
	mu       sync.Mutex
	statuses map[string]*Status
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{statuses: make(map[string]*Status)}
}

// Create registers a new status record. The identifier must be unused;
// identifiers are never reused within a process lifetime.
func (r *Registry) Create(st Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.statuses[st.ID]; exists {
		return fmt.Errorf("transfer %q already registered", st.ID)
	}
	cp := st
	r.statuses[st.ID] = &cp
	r.order = append(r.order, st.ID)
	return nil
}

// Get returns a copy of the status for id, if present.
func (r *Registry) Get(id string) (Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.statuses[id]
	if !ok {
		return Status{}, false
	}
	return *st, true
}

// List returns a snapshot of all statuses in insertion order. Mutations
// after the call do not affect the returned slice.
func (r *Registry) List() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Status, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.statuses[id])
	}
	return out
}

// Update applies fn to the status for id under the registry lock, so all
// field changes made by fn are visible atomically to concurrent Get/List
// calls. Returns false if the id is unknown.
func (r *Registry) Update(id string, fn func(*Status)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.statuses[id]
	if !ok {
		return false
	}
	fn(st)
	return true
}

// Prune removes terminal statuses that completed before now-maxAge and
// returns the number removed. Running transfers are never pruned.
func (r *Registry) Prune(maxAge time.Duration, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-maxAge)
	kept := r.order[:0]
	removed := 0
	for _, id := range r.order {
		st := r.statuses[id]
		if st.State.Terminal() && st.CompletedAt != nil && st.CompletedAt.Before(cutoff) {
			delete(r.statuses, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	r.order = kept
	return removed
}

// Len returns the number of registered statuses.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.statuses)
}
