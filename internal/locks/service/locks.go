// Package service coordinates the client-visible edit-lock workflow: a
// client acquires the lock for a resource before opening its editor,
// releases it on close, and every connected administrator is told about
// each transition so their UIs converge without polling.
//
// Per resource and client the protocol is: Idle -> (request open) ->
// Acquiring -> Editing on success, back to Idle on conflict with the
// current holder's name surfaced, and Editing -> (save/cancel) ->
// release -> Idle. A client that vanishes while Editing orphans the
// lock; ForceRelease is the administrator escape hatch for that.
package service

import (
	"context"

	"orgboard/internal/events"
	"orgboard/internal/locks/registry"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

var adminAudience = []model.Role{model.RoleAdmin}

type LockService interface {
	Acquire(ctx context.Context, resource string, identity model.Identity) (model.Lock, error)
	Release(ctx context.Context, resource string, identity model.Identity) error
	ForceRelease(ctx context.Context, resource string, identity model.Identity) error
	List(ctx context.Context) []model.Lock
}

type lockService struct {
	registry  *registry.Registry
	publisher events.Publisher
	cfg       *config.Config
}

func NewLockService(reg *registry.Registry, publisher events.Publisher, cfg *config.Config) LockService {
	return &lockService{
		registry:  reg,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Acquire validates input, mutates the registry, then notifies admins.
// The publish step is independent of the mutation: the bus cannot turn
// a successful acquire into a reported failure.
func (s *lockService) Acquire(ctx context.Context, resource string, identity model.Identity) (model.Lock, error) {
	if resource == "" {
		return model.Lock{}, apperrors.InvalidInput("resource was not provided")
	}

	lock, err := s.registry.Acquire(resource, identity)
	if err != nil {
		s.cfg.Log.Info("Lock acquire rejected",
			"resource", resource,
			"requested_by", identity.Username,
			"error", err,
		)
		return model.Lock{}, err
	}

	s.cfg.Log.Info("Lock acquired",
		"resource", resource,
		"owner", lock.Owner,
		"owner_id", lock.OwnerID,
	)

	s.publisher.Publish(adminAudience, model.Event{
		Type: model.EventEditLockChanged,
		Data: model.LockChange{Resource: resource, Owner: lock.Owner, Locked: true},
	})

	return lock, nil
}

func (s *lockService) Release(ctx context.Context, resource string, identity model.Identity) error {
	if resource == "" {
		return apperrors.InvalidInput("resource was not provided")
	}

	if err := s.registry.Release(resource, identity); err != nil {
		s.cfg.Log.Info("Lock release rejected",
			"resource", resource,
			"requested_by", identity.Username,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Lock released", "resource", resource, "released_by", identity.Username)

	s.publisher.Publish(adminAudience, model.Event{
		Type: model.EventEditLockChanged,
		Data: model.LockChange{Resource: resource, Owner: identity.Username, Locked: false},
	})

	return nil
}

// ForceRelease clears a lock regardless of holder. It exists so an
// orphaned lock (client gone while Editing) does not wedge a resource
// forever; ordinary release still refuses to touch someone else's lock.
func (s *lockService) ForceRelease(ctx context.Context, resource string, identity model.Identity) error {
	if resource == "" {
		return apperrors.InvalidInput("resource was not provided")
	}

	cleared, had := s.registry.ForceRelease(resource)
	if !had {
		return apperrors.NotFoundWithID("Lock", resource)
	}

	s.cfg.Log.Warn("Lock force-released",
		"resource", resource,
		"previous_owner", cleared.Owner,
		"forced_by", identity.Username,
	)

	s.publisher.Publish(adminAudience, model.Event{
		Type: model.EventEditLockChanged,
		Data: model.LockChange{Resource: resource, Owner: cleared.Owner, Locked: false},
	})

	return nil
}

func (s *lockService) List(ctx context.Context) []model.Lock {
	return s.registry.Snapshot()
}
