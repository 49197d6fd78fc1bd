package service

import (
	"context"
	"errors"
	"fmt"

	taskserrors "orgboard/internal/tasks/errors"
	"orgboard/internal/tasks/repository"
	"orgboard/internal/tasks/validator"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

const entityName = "task"

// PersonFinder loads a person for the membership check. Satisfied by
// the persons repository.
type PersonFinder interface {
	FindByID(ctx context.Context, id string) (*model.Person, error)
}

type Notifier interface {
	DataChanged(ctx context.Context, entity, operation, rowID string, payload any)
}

type TaskService interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id string) (*model.Task, error)
	GetByTeams(ctx context.Context, teamIDs []string) ([]*model.Task, error)
	Update(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

type taskService struct {
	repo      repository.TaskRepository
	persons   PersonFinder
	validator *validator.TaskValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewTaskService(
	repo repository.TaskRepository,
	persons PersonFinder,
	validator *validator.TaskValidator,
	notifier Notifier,
	cfg *config.Config,
) TaskService {
	return &taskService{
		repo:      repo,
		persons:   persons,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *taskService) Create(ctx context.Context, task *model.Task) error {
	if err := s.validator.Validate(task); err != nil {
		s.cfg.Log.Warn("Task validation failed", "name", task.Name, "error", err)
		return apperrors.Validation("Task validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkResponsibleMembership(ctx, task); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		s.cfg.Log.Error("Failed to create task", "name", task.Name, "error", err)
		return apperrors.Internal("Failed to create task", err)
	}

	s.cfg.Log.Info("Task created", "id", task.ID, "name", task.Name, "team_id", task.TeamID)
	s.notifier.DataChanged(ctx, entityName, model.OpCreate, task.ID, task)

	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Task ID cannot be empty")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}
	return task, nil
}

func (s *taskService) GetByTeams(ctx context.Context, teamIDs []string) ([]*model.Task, error) {
	tasks, err := s.repo.FindByTeams(ctx, teamIDs)
	if err != nil {
		s.cfg.Log.Error("Failed to list tasks", "team_ids", teamIDs, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tasks", err)
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, id string, updates *model.TaskUpdate) (*model.Task, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Task ID cannot be empty")
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}

	applyTaskUpdates(task, updates)

	if err := s.validator.Validate(task); err != nil {
		s.cfg.Log.Warn("Task validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Task validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkResponsibleMembership(ctx, task); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, task); err != nil {
		if errors.Is(err, taskserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Task", id)
		}
		s.cfg.Log.Error("Failed to update task", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update task", err)
	}

	s.cfg.Log.Info("Task updated", "id", id, "name", task.Name)
	s.notifier.DataChanged(ctx, entityName, model.OpUpdate, id, task)

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Task ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.mapRepoError(id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, taskserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Task", id)
		}
		s.cfg.Log.Error("Failed to delete task", "id", id, "error", err)
		return apperrors.Internal("Failed to delete task", err)
	}

	s.cfg.Log.Info("Task deleted", "id", id)
	s.notifier.DataChanged(ctx, entityName, model.OpDelete, id, nil)

	return nil
}

// checkResponsibleMembership enforces the assignment invariant: the
// responsible person must be a member of the task's team.
func (s *taskService) checkResponsibleMembership(ctx context.Context, task *model.Task) error {
	person, err := s.persons.FindByID(ctx, task.PersonID)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve responsible person", "person_id", task.PersonID, "error", err)
		return apperrors.Validation("Task validation failed", map[string]any{
			"error": fmt.Sprintf("person %s does not exist", task.PersonID),
		})
	}

	if !person.MemberOf(task.TeamID) {
		return apperrors.Validation("Task validation failed", map[string]any{
			"error": fmt.Sprintf(
				"%s is not a member of team %s and cannot be its responsible person",
				person.DisplayName(), task.TeamID,
			),
		})
	}

	return nil
}

func (s *taskService) mapRepoError(id string, err error) error {
	if errors.Is(err, taskserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Task", id)
	}
	if errors.Is(err, taskserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid task ID format")
	}
	s.cfg.Log.Error("Failed to load task", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve task", err)
}

func applyTaskUpdates(task *model.Task, updates *model.TaskUpdate) {
	if updates.Name != "" {
		task.Name = updates.Name
	}
	if updates.TeamID != "" {
		task.TeamID = updates.TeamID
	}
	if updates.PersonID != "" {
		task.PersonID = updates.PersonID
	}
	if !updates.StartDate.IsZero() {
		task.StartDate = updates.StartDate
	}
	if updates.EndDate != nil {
		task.EndDate = updates.EndDate
	}
}
