package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/internal/auth/repository"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.Session, model.Identity, error)
	Logout(ctx context.Context, sid string) error

	// Identify resolves a session id to an acting identity. Expired
	// sessions are rejected and reaped on the spot.
	Identify(ctx context.Context, sid string) (model.Identity, error)

	// Resolve maps a user id to an identity. An unknown id signals
	// absence, never an error.
	Resolve(ctx context.Context, userID int64) (model.Identity, bool, error)

	EnsureDefaultUsers(ctx context.Context) error
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      *config.Config
	now      func() time.Time
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, cfg *config.Config) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*model.Session, model.Identity, error) {
	if username == "" || password == "" {
		return nil, model.Identity{}, apperrors.InvalidInput("Username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) {
			return nil, model.Identity{}, apperrors.Unauthorized("Invalid username or password")
		}
		s.cfg.Log.Error("Failed to look up user", "username", username, "error", err)
		return nil, model.Identity{}, apperrors.Internal("Failed to log in", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, model.Identity{}, apperrors.Unauthorized("Invalid username or password")
	}

	session := &model.Session{
		SID:       uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: s.now(),
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.cfg.Log.Error("Failed to create session", "username", username, "error", err)
		return nil, model.Identity{}, apperrors.Internal("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "username", user.Username, "user_id", user.ID, "sid", session.SID)

	return session, model.Identity{ID: user.ID, Username: user.Username, Roles: user.Roles}, nil
}

func (s *authService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		if errors.Is(err, autherrors.ErrSessionNotFound) {
			return nil
		}
		s.cfg.Log.Error("Failed to delete session", "sid", sid, "error", err)
		return apperrors.Internal("Failed to log out", err)
	}

	s.cfg.Log.Info("User logged out", "sid", sid)
	return nil
}

func (s *authService) Identify(ctx context.Context, sid string) (model.Identity, error) {
	if sid == "" {
		return model.Identity{}, apperrors.Unauthorized("Authentication required")
	}

	session, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, autherrors.ErrSessionNotFound) {
			return model.Identity{}, apperrors.Unauthorized("Authentication required")
		}
		s.cfg.Log.Error("Failed to read session", "sid", sid, "error", err)
		return model.Identity{}, apperrors.Internal("Failed to authenticate", err)
	}

	if session.Expired(s.now()) {
		// Lazy reap; a failure here only delays the cleanup.
		if err := s.sessions.Delete(ctx, sid); err != nil && !errors.Is(err, autherrors.ErrSessionNotFound) {
			s.cfg.Log.Warn("Failed to reap expired session", "sid", sid, "error", err)
		}
		return model.Identity{}, apperrors.Unauthorized("Session expired")
	}

	identity, ok, err := s.Resolve(ctx, session.UserID)
	if err != nil {
		return model.Identity{}, apperrors.Internal("Failed to authenticate", err)
	}
	if !ok {
		// The user behind the session is gone; the session is dead weight.
		return model.Identity{}, apperrors.Unauthorized("Authentication required")
	}

	return identity, nil
}

func (s *authService) Resolve(ctx context.Context, userID int64) (model.Identity, bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, autherrors.ErrUserNotFound) {
			return model.Identity{}, false, nil
		}
		s.cfg.Log.Error("Failed to resolve user", "user_id", userID, "error", err)
		return model.Identity{}, false, err
	}
	return model.Identity{ID: user.ID, Username: user.Username, Roles: user.Roles}, true, nil
}

// EnsureDefaultUsers seeds the admin and regular accounts on a fresh
// database, mirroring first-start initialization of the system store.
func (s *authService) EnsureDefaultUsers(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	s.cfg.Log.Info("Users collection is empty, seeding default accounts")

	seeds := []struct {
		username string
		password string
		roles    []model.Role
	}{
		{"admin", s.cfg.AdminPassword, []model.Role{model.RoleAdmin}},
		{"user", s.cfg.UserPassword, []model.Role{model.RoleUser}},
	}

	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		id, err := s.users.NextID(ctx)
		if err != nil {
			return err
		}

		user := &model.User{
			ID:       id,
			Username: seed.username,
			Password: string(hash),
			Roles:    seed.roles,
		}
		if err := s.users.Create(ctx, user); err != nil && !errors.Is(err, autherrors.ErrUserExists) {
			return err
		}
		s.cfg.Log.Info("Seeded user", "username", seed.username, "user_id", id, "roles", seed.roles)
	}

	return nil
}
