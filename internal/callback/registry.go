// Package callback provides a registry of callback functions keyed by opaque
// handles. Dispatchers iterate over a snapshot, so callbacks may add or remove
// registrations (including their own) while being invoked.
package callback

import (
	"slices"
	"sync"
)

type remover interface {
	remove(id uint64)
}

// Handle identifies a single registration. The zero Handle matches nothing.
type Handle struct {
	id    uint64
	owner remover
}

// Cancel removes the registration this handle refers to. Calling it more than
// once, or on a zero Handle, does nothing.
func (h Handle) Cancel() {
	if h.owner == nil || h.id == 0 {
		return
	}
	h.owner.remove(h.id)
}

// Registry holds callbacks of shape F. The zero value is ready to use and is
// safe for concurrent use.
type Registry[F any] struct {
	mu      sync.Mutex
	lastID  uint64
	order   []uint64
	entries map[uint64]F
}

// New returns an empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{}
}

// Add stores f under a fresh id. Ids are never reused, so a stale handle can
// never cancel a later registration.
func (r *Registry[F]) Add(f F) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[uint64]F)
	}
	r.lastID++
	id := r.lastID
	r.entries[id] = f
	r.order = append(r.order, id)
	return Handle{id: id, owner: r}
}

// Remove cancels the registration behind h. Handles issued by another
// registry, already removed handles and the zero Handle are ignored.
func (r *Registry[F]) Remove(h Handle) {
	if h.owner == nil || h.owner != remover(r) {
		return
	}
	r.remove(h.id)
}

func (r *Registry[F]) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return
	}
	delete(r.entries, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Callbacks returns the registered callbacks in registration order. The
// returned slice is a copy and is not affected by later Add or Remove calls.
func (r *Registry[F]) Callbacks() []F {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return nil
	}
	out := make([]F, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Len returns the number of live registrations.
func (r *Registry[F]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
