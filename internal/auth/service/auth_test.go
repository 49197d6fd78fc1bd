package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type memoryUserRepository struct {
	users map[int64]*model.User
}

func (m *memoryUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, autherrors.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, autherrors.ErrUserNotFound
}

func (m *memoryUserRepository) Create(ctx context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepository) Save(ctx context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memoryUserRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memoryUserRepository) NextID(ctx context.Context) (int64, error) {
	var max int64
	for id := range m.users {
		if id > max {
			max = id
		}
	}
	return max + 1, nil
}

type memorySessionRepository struct {
	sessions map[string]*model.Session
}

func (m *memorySessionRepository) Create(ctx context.Context, session *model.Session) error {
	m.sessions[session.SID] = session
	return nil
}

func (m *memorySessionRepository) Get(ctx context.Context, sid string) (*model.Session, error) {
	session, ok := m.sessions[sid]
	if !ok {
		return nil, autherrors.ErrSessionNotFound
	}
	return session, nil
}

func (m *memorySessionRepository) Delete(ctx context.Context, sid string) error {
	if _, ok := m.sessions[sid]; !ok {
		return autherrors.ErrSessionNotFound
	}
	delete(m.sessions, sid)
	return nil
}

func (m *memorySessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	var sessions []*model.Session
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newAuthFixture(t *testing.T) (*authService, *memoryUserRepository, *memorySessionRepository) {
	t.Helper()
	users := &memoryUserRepository{users: map[int64]*model.User{}}
	sessions := &memorySessionRepository{sessions: map[string]*model.Session{}}
	cfg := &config.Config{
		Log:           logger.Discard(),
		SessionTTL:    time.Hour,
		AdminPassword: "Admin123",
		UserPassword:  "User123",
	}
	svc := NewAuthService(users, sessions, cfg).(*authService)
	return svc, users, sessions
}

func TestLoginCreatesSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)
	users.users[1] = &model.User{
		ID:       1,
		Username: "alice",
		Password: hash(t, "secret"),
		Roles:    []model.Role{model.RoleAdmin},
	}

	session, identity, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)

	assert.Equal(t, int64(1), session.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.True(t, identity.IsAdmin())
	assert.Contains(t, sessions.sessions, session.SID)
	assert.True(t, session.ExpiresAt.After(session.CreatedAt))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.users[1] = &model.User{
		ID:       1,
		Username: "alice",
		Password: hash(t, "secret"),
		Roles:    []model.Role{model.RoleAdmin},
	}

	_, _, err := svc.Login(context.Background(), "alice", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	// Unknown user gets the same answer as a wrong password.
	_, _, err = svc.Login(context.Background(), "mallory", "secret")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, _, err = svc.Login(context.Background(), "", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestIdentifyReapsExpiredSession(t *testing.T) {
	svc, users, sessions := newAuthFixture(t)
	users.users[1] = &model.User{ID: 1, Username: "alice", Password: "x", Roles: []model.Role{model.RoleAdmin}}

	now := time.Now()
	sessions.sessions["stale"] = &model.Session{
		SID:       "stale",
		UserID:    1,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	_, err := svc.Identify(context.Background(), "stale")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	assert.NotContains(t, sessions.sessions, "stale")
}

func TestIdentifyRejectsSessionOfDeletedUser(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	now := time.Now()
	sessions.sessions["orphan"] = &model.Session{
		SID:       "orphan",
		UserID:    42,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	_, err := svc.Identify(context.Background(), "orphan")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLogoutIsIdempotent(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)
	sessions.sessions["sid-1"] = &model.Session{SID: "sid-1", UserID: 1}

	require.NoError(t, svc.Logout(context.Background(), "sid-1"))
	require.NoError(t, svc.Logout(context.Background(), "sid-1"))
	require.NoError(t, svc.Logout(context.Background(), ""))
	assert.Empty(t, sessions.sessions)
}

func TestEnsureDefaultUsersSeedsOnlyEmptyCollection(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	require.NoError(t, svc.EnsureDefaultUsers(context.Background()))
	require.Len(t, users.users, 2)

	admin, err := users.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, []model.Role{model.RoleAdmin}, admin.Roles)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("Admin123")))

	// A second run must not touch the populated collection.
	admin.Password = "changed"
	require.NoError(t, svc.EnsureDefaultUsers(context.Background()))
	assert.Len(t, users.users, 2)
	assert.Equal(t, "changed", admin.Password)
}

func TestResolveSignalsAbsenceWithoutError(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	users.users[1] = &model.User{ID: 1, Username: "alice", Password: "x", Roles: []model.Role{model.RoleUser}}

	identity, ok, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", identity.Username)

	_, ok, err = svc.Resolve(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, ok)
}
