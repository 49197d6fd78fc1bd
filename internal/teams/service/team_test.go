package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	teamserrors "orgboard/internal/teams/errors"
	"orgboard/internal/teams/validator"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type mockTeamRepository struct {
	CreateFunc   func(ctx context.Context, team *model.Team) error
	FindByIDFunc func(ctx context.Context, id string) (*model.Team, error)
	FindAllFunc  func(ctx context.Context) ([]*model.Team, error)
	UpdateFunc   func(ctx context.Context, id string, team *model.Team) error
	DeleteFunc   func(ctx context.Context, id string) error
	ExistsFunc   func(ctx context.Context, id string) (bool, error)
}

func (m *mockTeamRepository) Create(ctx context.Context, team *model.Team) error {
	return m.CreateFunc(ctx, team)
}

func (m *mockTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockTeamRepository) FindAll(ctx context.Context) ([]*model.Team, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockTeamRepository) Update(ctx context.Context, id string, team *model.Team) error {
	return m.UpdateFunc(ctx, id, team)
}

func (m *mockTeamRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockTeamRepository) Exists(ctx context.Context, id string) (bool, error) {
	return m.ExistsFunc(ctx, id)
}

type countFunc func(ctx context.Context, teamID string) (int64, error)

func (f countFunc) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	return f(ctx, teamID)
}

type recordedChange struct {
	entity    string
	operation string
	rowID     string
}

type capturingNotifier struct {
	changes []recordedChange
}

func (n *capturingNotifier) DataChanged(ctx context.Context, entity, operation, rowID string, payload any) {
	n.changes = append(n.changes, recordedChange{entity: entity, operation: operation, rowID: rowID})
}

func zeroCount(ctx context.Context, teamID string) (int64, error) { return 0, nil }

const teamID = "64f1a0b2c3d4e5f601234567"

func newTeamService(repo *mockTeamRepository, members, tasks countFunc) (TeamService, *capturingNotifier) {
	notifier := &capturingNotifier{}
	cfg := &config.Config{Log: logger.Discard()}
	svc := NewTeamService(repo, members, tasks, validator.NewTeamValidator(), notifier, cfg)
	return svc, notifier
}

func TestCreateTeamValidatesBeforeWriting(t *testing.T) {
	repo := &mockTeamRepository{
		CreateFunc: func(ctx context.Context, team *model.Team) error {
			t.Fatal("repository should not be reached")
			return nil
		},
	}
	svc, notifier := newTeamService(repo, zeroCount, zeroCount)

	err := svc.Create(context.Background(), &model.Team{Name: ""})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.Empty(t, notifier.changes)
}

func TestCreateTeamNotifies(t *testing.T) {
	repo := &mockTeamRepository{
		CreateFunc: func(ctx context.Context, team *model.Team) error {
			team.ID = teamID
			return nil
		},
	}
	svc, notifier := newTeamService(repo, zeroCount, zeroCount)

	err := svc.Create(context.Background(), &model.Team{Name: "platform", Color: "#1a2b3c"})
	require.NoError(t, err)

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, recordedChange{entity: "team", operation: model.OpCreate, rowID: teamID}, notifier.changes[0])
}

func TestDeleteTeamBlockedByMembers(t *testing.T) {
	repo := &mockTeamRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "platform"}, nil
		},
	}
	members := countFunc(func(ctx context.Context, id string) (int64, error) { return 3, nil })
	svc, notifier := newTeamService(repo, members, zeroCount)

	err := svc.Delete(context.Background(), teamID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Empty(t, notifier.changes)
}

func TestDeleteTeamBlockedByTasks(t *testing.T) {
	repo := &mockTeamRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "platform"}, nil
		},
	}
	tasks := countFunc(func(ctx context.Context, id string) (int64, error) { return 1, nil })
	svc, notifier := newTeamService(repo, zeroCount, tasks)

	err := svc.Delete(context.Background(), teamID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Empty(t, notifier.changes)
}

func TestDeleteEmptyTeamNotifies(t *testing.T) {
	repo := &mockTeamRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "platform"}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	svc, notifier := newTeamService(repo, zeroCount, zeroCount)

	require.NoError(t, svc.Delete(context.Background(), teamID))

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, recordedChange{entity: "team", operation: model.OpDelete, rowID: teamID}, notifier.changes[0])
}

func TestUpdateTeamAppliesPartialChanges(t *testing.T) {
	var saved *model.Team
	repo := &mockTeamRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return &model.Team{ID: id, Name: "platform", LongName: "Platform Engineering", Color: "#1a2b3c"}, nil
		},
		UpdateFunc: func(ctx context.Context, id string, team *model.Team) error {
			saved = team
			return nil
		},
	}
	svc, _ := newTeamService(repo, zeroCount, zeroCount)

	newColor := "#ff0000"
	updated, err := svc.Update(context.Background(), teamID, &model.TeamUpdate{Color: &newColor})
	require.NoError(t, err)

	assert.Equal(t, "platform", updated.Name)
	assert.Equal(t, "Platform Engineering", updated.LongName)
	assert.Equal(t, "#ff0000", updated.Color)
	assert.Equal(t, saved, updated)
}

func TestGetTeamMapsRepositoryErrors(t *testing.T) {
	repo := &mockTeamRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Team, error) {
			return nil, teamserrors.ErrNotFound
		},
	}
	svc, _ := newTeamService(repo, zeroCount, zeroCount)

	_, err := svc.GetByID(context.Background(), teamID)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	repo.FindByIDFunc = func(ctx context.Context, id string) (*model.Team, error) {
		return nil, teamserrors.ErrInvalidID
	}
	_, err = svc.GetByID(context.Background(), "not-an-id")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
