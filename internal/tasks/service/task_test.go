package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgboard/internal/tasks/validator"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/logger"
	"orgboard/pkg/model"
)

type mockTaskRepository struct {
	CreateFunc               func(ctx context.Context, task *model.Task) error
	FindByIDFunc             func(ctx context.Context, id string) (*model.Task, error)
	FindByTeamsFunc          func(ctx context.Context, teamIDs []string) ([]*model.Task, error)
	UpdateFunc               func(ctx context.Context, id string, task *model.Task) error
	DeleteFunc               func(ctx context.Context, id string) error
	CountByTeamFunc          func(ctx context.Context, teamID string) (int64, error)
	CountByPersonFunc        func(ctx context.Context, personID string) (int64, error)
	CountByTeamAndPersonFunc func(ctx context.Context, teamID, personID string) (int64, error)
}

func (m *mockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	return m.CreateFunc(ctx, task)
}

func (m *mockTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockTaskRepository) FindByTeams(ctx context.Context, teamIDs []string) ([]*model.Task, error) {
	return m.FindByTeamsFunc(ctx, teamIDs)
}

func (m *mockTaskRepository) Update(ctx context.Context, id string, task *model.Task) error {
	return m.UpdateFunc(ctx, id, task)
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockTaskRepository) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	return m.CountByTeamFunc(ctx, teamID)
}

func (m *mockTaskRepository) CountByPerson(ctx context.Context, personID string) (int64, error) {
	return m.CountByPersonFunc(ctx, personID)
}

func (m *mockTaskRepository) CountByTeamAndPerson(ctx context.Context, teamID, personID string) (int64, error) {
	return m.CountByTeamAndPersonFunc(ctx, teamID, personID)
}

type mockPersonFinder struct {
	persons map[string]*model.Person
}

func (m *mockPersonFinder) FindByID(ctx context.Context, id string) (*model.Person, error) {
	person, ok := m.persons[id]
	if !ok {
		return nil, assert.AnError
	}
	return person, nil
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

const (
	taskID   = "64f1a0b2c3d4e5f60123456b"
	teamID   = "64f1a0b2c3d4e5f601234569"
	personID = "64f1a0b2c3d4e5f601234568"
)

var start = time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

func member() *mockPersonFinder {
	return &mockPersonFinder{persons: map[string]*model.Person{
		personID: {ID: personID, FirstName: "Ada", LastName: "Lovelace", TeamIDs: []string{teamID}},
	}}
}

func outsider() *mockPersonFinder {
	return &mockPersonFinder{persons: map[string]*model.Person{
		personID: {ID: personID, FirstName: "Ada", LastName: "Lovelace"},
	}}
}

func newTaskService(repo *mockTaskRepository, persons *mockPersonFinder) (TaskService, *capturingNotifier) {
	notifier := &capturingNotifier{}
	cfg := &config.Config{Log: logger.Discard()}
	svc := NewTaskService(repo, persons, validator.NewTaskValidator(), notifier, cfg)
	return svc, notifier
}

func validTask() *model.Task {
	return &model.Task{
		Name:      "quarterly audit",
		TeamID:    teamID,
		PersonID:  personID,
		StartDate: start,
	}
}

func TestCreateTaskNotifies(t *testing.T) {
	repo := &mockTaskRepository{
		CreateFunc: func(ctx context.Context, task *model.Task) error {
			task.ID = taskID
			return nil
		},
	}
	svc, notifier := newTaskService(repo, member())

	require.NoError(t, svc.Create(context.Background(), validTask()))

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, recordedChange{entity: "task", operation: model.OpCreate, rowID: taskID}, notifier.changes[0])
}

func TestCreateTaskRejectsNonMemberResponsible(t *testing.T) {
	repo := &mockTaskRepository{
		CreateFunc: func(ctx context.Context, task *model.Task) error {
			t.Fatal("repository should not be reached")
			return nil
		},
	}
	svc, notifier := newTaskService(repo, outsider())

	err := svc.Create(context.Background(), validTask())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.Empty(t, notifier.changes)
}

func TestCreateTaskRejectsEndBeforeStart(t *testing.T) {
	repo := &mockTaskRepository{
		CreateFunc: func(ctx context.Context, task *model.Task) error {
			t.Fatal("repository should not be reached")
			return nil
		},
	}
	svc, _ := newTaskService(repo, member())

	task := validTask()
	end := start.AddDate(0, 0, -1)
	task.EndDate = &end

	err := svc.Create(context.Background(), task)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestUpdateRevalidatesMembership(t *testing.T) {
	otherTeam := "64f1a0b2c3d4e5f60123456a"
	repo := &mockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			task := validTask()
			task.ID = id
			return task, nil
		},
		UpdateFunc: func(ctx context.Context, id string, task *model.Task) error {
			t.Fatal("update should not be reached")
			return nil
		},
	}
	svc, _ := newTaskService(repo, member())

	// Moving the task to a team the responsible person is not in.
	_, err := svc.Update(context.Background(), taskID, &model.TaskUpdate{TeamID: otherTeam})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestGetByTeamsPassesFilterThrough(t *testing.T) {
	repo := &mockTaskRepository{
		FindByTeamsFunc: func(ctx context.Context, teamIDs []string) ([]*model.Task, error) {
			assert.Equal(t, []string{teamID}, teamIDs)
			task := validTask()
			task.ID = taskID
			return []*model.Task{task}, nil
		},
	}
	svc, _ := newTaskService(repo, member())

	tasks, err := svc.GetByTeams(context.Background(), []string{teamID})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestDeleteTaskNotifies(t *testing.T) {
	repo := &mockTaskRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Task, error) {
			task := validTask()
			task.ID = id
			return task, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	svc, notifier := newTaskService(repo, member())

	require.NoError(t, svc.Delete(context.Background(), taskID))

	require.Len(t, notifier.changes, 1)
	assert.Equal(t, recordedChange{entity: "task", operation: model.OpDelete, rowID: taskID}, notifier.changes[0])
}
