// Package registry holds the in-memory edit-lock state: a mutual-exclusion
// gate per named resource, not a queue. A losing acquirer fails immediately
// and the caller decides whether to retry. State is process-local and resets
// on restart, releasing every lock implicitly.
package registry

import (
	"fmt"
	"sync"
	"time"

	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

type Registry struct {
	mu    sync.Mutex
	locks map[string]model.Lock
	now   func() time.Time
}

func New() *Registry {
	return &Registry{
		locks: make(map[string]model.Lock),
		now:   time.Now,
	}
}

// Acquire claims resource for identity. Re-acquiring a lock the identity
// already holds returns the existing lock unchanged. A lock held by anyone
// else is a Conflict naming the current holder; it is never overridden.
func (r *Registry) Acquire(resource string, identity model.Identity) (model.Lock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.locks[resource]; ok {
		if current.OwnerID == identity.ID {
			return current, nil
		}
		return model.Lock{}, apperrors.Conflict(fmt.Sprintf("Resource is being edited by %s", current.Owner))
	}

	lock := model.Lock{
		Resource:   resource,
		Owner:      identity.Username,
		OwnerID:    identity.ID,
		AcquiredAt: r.now(),
	}
	r.locks[resource] = lock
	return lock, nil
}

// Release drops the identity's lock on resource. Releasing an unlocked
// resource is a no-op success; releasing someone else's lock is a Conflict
// and leaves the lock untouched.
func (r *Registry) Release(resource string, identity model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.locks[resource]
	if !ok {
		return nil
	}
	if current.OwnerID != identity.ID {
		return apperrors.Conflict(fmt.Sprintf("Resource is being edited by %s", current.Owner))
	}

	delete(r.locks, resource)
	return nil
}

// ForceRelease unconditionally clears the lock on resource, reporting
// whether one existed and who held it. Reserved for the administrator
// escape hatch that frees locks orphaned by vanished clients.
func (r *Registry) ForceRelease(resource string) (model.Lock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.locks[resource]
	if ok {
		delete(r.locks, resource)
	}
	return current, ok
}

// Peek looks up the current lock without side effects.
func (r *Registry) Peek(resource string) (model.Lock, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[resource]
	return lock, ok
}

// Snapshot returns every currently held lock. Used to bring freshly
// connected clients up to date without waiting for the next transition.
func (r *Registry) Snapshot() []model.Lock {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Lock, 0, len(r.locks))
	for _, lock := range r.locks {
		out = append(out, lock)
	}
	return out
}
