package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherrors "orgboard/internal/auth/errors"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type mockSessionRepository struct {
	listFunc   func(ctx context.Context) ([]*model.Session, error)
	deleteFunc func(ctx context.Context, sid string) error
}

func (m *mockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	return nil
}

func (m *mockSessionRepository) Get(ctx context.Context, sid string) (*model.Session, error) {
	return nil, autherrors.ErrSessionNotFound
}

func (m *mockSessionRepository) Delete(ctx context.Context, sid string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, sid)
	}
	return nil
}

func (m *mockSessionRepository) List(ctx context.Context) ([]*model.Session, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockResolver struct {
	users map[int64]model.Identity
	errs  map[int64]error
}

func (m *mockResolver) Resolve(ctx context.Context, userID int64) (model.Identity, bool, error) {
	if err, ok := m.errs[userID]; ok {
		return model.Identity{}, false, err
	}
	identity, ok := m.users[userID]
	return identity, ok, nil
}

type capturingPublisher struct {
	audiences [][]model.Role
	events    []model.Event
}

func (p *capturingPublisher) Publish(audience []model.Role, event model.Event) {
	p.audiences = append(p.audiences, audience)
	p.events = append(p.events, event)
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.Discard()}
}

func TestListActiveResolvesIdentityAndMarksCurrent(t *testing.T) {
	future := time.Now().Add(time.Hour)
	repo := &mockSessionRepository{
		listFunc: func(ctx context.Context) ([]*model.Session, error) {
			return []*model.Session{
				{SID: "sid-alice", UserID: 1, ExpiresAt: future},
				{SID: "sid-bob", UserID: 2, ExpiresAt: future},
			}, nil
		},
	}
	resolver := &mockResolver{users: map[int64]model.Identity{
		1: {ID: 1, Username: "alice", Roles: []model.Role{model.RoleAdmin}},
		2: {ID: 2, Username: "bob", Roles: []model.Role{model.RoleUser}},
	}}

	svc := NewDirectoryService(repo, resolver, &capturingPublisher{}, testConfig())

	infos, err := svc.ListActive(context.Background(), "sid-alice")
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "alice", infos[0].Username)
	assert.True(t, infos[0].Current)
	assert.False(t, infos[0].Expired)
	assert.False(t, infos[1].Current)
}

func TestListActiveDropsUnresolvableSessions(t *testing.T) {
	future := time.Now().Add(time.Hour)
	repo := &mockSessionRepository{
		listFunc: func(ctx context.Context) ([]*model.Session, error) {
			return []*model.Session{
				{SID: "sid-known", UserID: 1, ExpiresAt: future},
				{SID: "sid-deleted-user", UserID: 7, ExpiresAt: future},
				{SID: "sid-resolver-error", UserID: 9, ExpiresAt: future},
			}, nil
		},
	}
	resolver := &mockResolver{
		users: map[int64]model.Identity{1: {ID: 1, Username: "alice", Roles: []model.Role{model.RoleAdmin}}},
		errs:  map[int64]error{9: errors.New("mongo: connection reset")},
	}

	svc := NewDirectoryService(repo, resolver, &capturingPublisher{}, testConfig())

	infos, err := svc.ListActive(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "sid-known", infos[0].SID)
}

func TestListActiveMarksExpiredButUnreapedSessions(t *testing.T) {
	repo := &mockSessionRepository{
		listFunc: func(ctx context.Context) ([]*model.Session, error) {
			return []*model.Session{
				{SID: "sid-old", UserID: 1, ExpiresAt: time.Now().Add(-time.Minute)},
			}, nil
		},
	}
	resolver := &mockResolver{users: map[int64]model.Identity{
		1: {ID: 1, Username: "alice", Roles: []model.Role{model.RoleAdmin}},
	}}

	svc := NewDirectoryService(repo, resolver, &capturingPublisher{}, testConfig())

	infos, err := svc.ListActive(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Expired)
}

func TestTerminatePublishesExactlyOneEvent(t *testing.T) {
	repo := &mockSessionRepository{}
	pub := &capturingPublisher{}

	svc := NewDirectoryService(repo, &mockResolver{}, pub, testConfig())

	require.NoError(t, svc.Terminate(context.Background(), "sid-bob"))

	require.Len(t, pub.events, 1)
	assert.Equal(t, []model.Role{model.RoleAdmin}, pub.audiences[0])
	assert.Equal(t, model.EventActiveUsersChanged, pub.events[0].Type)
	assert.Equal(t, model.ActiveUsersChange{Reason: "Session was terminated by admin"}, pub.events[0].Data)
}

func TestTerminateUnknownSidPublishesNothing(t *testing.T) {
	repo := &mockSessionRepository{
		deleteFunc: func(ctx context.Context, sid string) error {
			return autherrors.ErrSessionNotFound
		},
	}
	pub := &capturingPublisher{}

	svc := NewDirectoryService(repo, &mockResolver{}, pub, testConfig())

	err := svc.Terminate(context.Background(), "sid-missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.Empty(t, pub.events)
}

func TestTerminateStoreFailurePropagates(t *testing.T) {
	cause := errors.New("mongo: socket closed")
	repo := &mockSessionRepository{
		deleteFunc: func(ctx context.Context, sid string) error {
			return cause
		},
	}
	pub := &capturingPublisher{}

	svc := NewDirectoryService(repo, &mockResolver{}, pub, testConfig())

	err := svc.Terminate(context.Background(), "sid-bob")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, pub.events)
}

func TestTerminateWithoutSidRejected(t *testing.T) {
	svc := NewDirectoryService(&mockSessionRepository{}, &mockResolver{}, &capturingPublisher{}, testConfig())

	err := svc.Terminate(context.Background(), "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
