package service

import (
	"context"
	"errors"
	"time"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/internal/auth/repository"
	"orgboard/internal/events"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

var adminAudience = []model.Role{model.RoleAdmin}

// IdentityResolver maps a stored user id to a live identity. Absence is
// signaled, not raised, so a deleted user simply drops out of listings.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID int64) (model.Identity, bool, error)
}

// DirectoryService is the administrator's read-and-terminate view over
// the session store.
type DirectoryService interface {
	ListActive(ctx context.Context, currentSID string) ([]model.SessionInfo, error)
	Terminate(ctx context.Context, sid string) error
}

type directoryService struct {
	sessions  repository.SessionRepository
	resolver  IdentityResolver
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewDirectoryService(sessions repository.SessionRepository, resolver IdentityResolver, publisher events.Publisher, cfg *config.Config) DirectoryService {
	return &directoryService{
		sessions:  sessions,
		resolver:  resolver,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// ListActive enumerates stored sessions with resolved identity. Expired
// but not yet reaped sessions are listed and marked; rows whose identity
// no longer resolves are silently excluded.
func (s *directoryService) ListActive(ctx context.Context, currentSID string) ([]model.SessionInfo, error) {
	stored, err := s.sessions.List(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list sessions", "error", err)
		return nil, apperrors.Internal("Failed to list active sessions", err)
	}

	now := s.now()
	infos := make([]model.SessionInfo, 0, len(stored))
	for _, session := range stored {
		identity, ok, err := s.resolver.Resolve(ctx, session.UserID)
		if err != nil {
			s.cfg.Log.Warn("Dropping session with unresolvable identity",
				"sid", session.SID,
				"user_id", session.UserID,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		infos = append(infos, model.SessionInfo{
			SID:       session.SID,
			UserID:    session.UserID,
			Username:  identity.Username,
			Roles:     identity.Roles,
			ExpiresAt: session.ExpiresAt,
			Expired:   session.Expired(now),
			Current:   session.SID == currentSID,
		})
	}

	return infos, nil
}

// Terminate forcibly destroys a session. Admin session lists everywhere
// refresh off the published event.
func (s *directoryService) Terminate(ctx context.Context, sid string) error {
	if sid == "" {
		return apperrors.InvalidInput("sid was not provided")
	}

	if err := s.sessions.Delete(ctx, sid); err != nil {
		if errors.Is(err, autherrors.ErrSessionNotFound) {
			return apperrors.NotFoundWithID("Session", sid)
		}
		s.cfg.Log.Error("Failed to terminate session", "sid", sid, "error", err)
		return apperrors.Internal("Failed to terminate session", err)
	}

	s.cfg.Log.Info("Session terminated by admin", "sid", sid)

	s.publisher.Publish(adminAudience, model.Event{
		Type: model.EventActiveUsersChanged,
		Data: model.ActiveUsersChange{Reason: "Session was terminated by admin"},
	})

	return nil
}
