// Package registry holds the Group and Meeting collections and the rules that
// tie them together.
//
// A Registry is built once with the owner identity and handed to whoever needs
// it; there is no package-level instance. Every mutating call names its caller
// and is rejected unless the caller is the owner. Reads are open to anyone.
//
// All operations, on either store, run under a single mutex held by the
// Registry, so one operation always completes before the next begins. A failed
// operation leaves the registry exactly as it found it.
package registry

import (
	"sync"

	"github.com/dalemusser/converge/internal/app/policy/ownerpolicy"
	"github.com/dalemusser/converge/internal/domain/models"
	"go.uber.org/zap"
)

// Registry owns the access guard, both stores and the meeting id counter.
type Registry struct {
	mu    sync.Mutex
	guard ownerpolicy.Guard
	log   *zap.Logger

	groups   GroupStore
	meetings MeetingStore
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger sets the logger used for mutation and denial records.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.log = logger
		}
	}
}

// New creates an empty registry whose only authorized writer is owner.
func New(owner string, opts ...Option) *Registry {
	r := &Registry{
		guard: ownerpolicy.New(owner),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.groups = GroupStore{r: r, byName: map[string]*groupEntry{}}
	r.meetings = MeetingStore{r: r, byID: map[uint64]*models.Meeting{}}
	return r
}

// Owner returns the identity allowed to mutate the registry.
func (r *Registry) Owner() string {
	return r.guard.Owner()
}

// Groups returns the group store.
func (r *Registry) Groups() *GroupStore {
	return &r.groups
}

// Meetings returns the meeting store.
func (r *Registry) Meetings() *MeetingStore {
	return &r.meetings
}

// authorize gates a mutation. Callers must hold r.mu.
func (r *Registry) authorize(op, caller string) error {
	if err := r.guard.Authorize(op, caller); err != nil {
		r.log.Warn("registry mutation denied",
			zap.String("op", op),
			zap.String("caller", caller))
		return err
	}
	return nil
}
