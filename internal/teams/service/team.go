package service

import (
	"context"
	"errors"
	"fmt"

	teamserrors "orgboard/internal/teams/errors"
	"orgboard/internal/teams/repository"
	"orgboard/internal/teams/validator"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

const entityName = "team"

// MemberCounter reports how many persons belong to a team. Satisfied by
// the persons repository.
type MemberCounter interface {
	CountByTeam(ctx context.Context, teamID string) (int64, error)
}

// TaskCounter reports how many tasks are assigned to a team. Satisfied
// by the tasks repository.
type TaskCounter interface {
	CountByTeam(ctx context.Context, teamID string) (int64, error)
}

// Notifier fans a domain event out to connected admin clients and
// records the mutation in the change log. Shared by the domain services.
type Notifier interface {
	DataChanged(ctx context.Context, entity, operation, rowID string, payload any)
}

type TeamService interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	GetAll(ctx context.Context) ([]*model.Team, error)
	Update(ctx context.Context, id string, updates *model.TeamUpdate) (*model.Team, error)
	Delete(ctx context.Context, id string) error
}

type teamService struct {
	repo      repository.TeamRepository
	members   MemberCounter
	tasks     TaskCounter
	validator *validator.TeamValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewTeamService(
	repo repository.TeamRepository,
	members MemberCounter,
	tasks TaskCounter,
	validator *validator.TeamValidator,
	notifier Notifier,
	cfg *config.Config,
) TeamService {
	return &teamService{
		repo:      repo,
		members:   members,
		tasks:     tasks,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *teamService) Create(ctx context.Context, team *model.Team) error {
	if err := s.validator.Validate(team); err != nil {
		s.cfg.Log.Warn("Team validation failed", "name", team.Name, "error", err)
		return apperrors.Validation("Team validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, team); err != nil {
		s.cfg.Log.Error("Failed to create team", "name", team.Name, "error", err)
		return apperrors.Internal("Failed to create team", err)
	}

	s.cfg.Log.Info("Team created", "id", team.ID, "name", team.Name)
	s.notifier.DataChanged(ctx, entityName, model.OpCreate, team.ID, team)

	return nil
}

func (s *teamService) GetByID(ctx context.Context, id string) (*model.Team, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Team ID cannot be empty")
	}

	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}
	return team, nil
}

func (s *teamService) GetAll(ctx context.Context) ([]*model.Team, error) {
	teams, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list teams", "error", err)
		return nil, apperrors.Internal("Failed to retrieve teams", err)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id string, updates *model.TeamUpdate) (*model.Team, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Team ID cannot be empty")
	}

	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}

	applyTeamUpdates(team, updates)

	if err := s.validator.Validate(team); err != nil {
		s.cfg.Log.Warn("Team validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Team validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Update(ctx, id, team); err != nil {
		if errors.Is(err, teamserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Team", id)
		}
		s.cfg.Log.Error("Failed to update team", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update team", err)
	}

	s.cfg.Log.Info("Team updated", "id", id, "name", team.Name)
	s.notifier.DataChanged(ctx, entityName, model.OpUpdate, id, team)

	return team, nil
}

// Delete refuses to remove a team that still has members or assigned
// tasks; the caller must reassign or remove those first.
func (s *teamService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Team ID cannot be empty")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.mapRepoError(id, err)
	}

	memberCount, err := s.members.CountByTeam(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to count team members", "team_id", id, "error", err)
		return apperrors.Internal("Failed to check team membership", err)
	}
	if memberCount > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Team still has %d member(s) and cannot be deleted", memberCount,
		))
	}

	taskCount, err := s.tasks.CountByTeam(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to count team tasks", "team_id", id, "error", err)
		return apperrors.Internal("Failed to check team tasks", err)
	}
	if taskCount > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Team still has %d assigned task(s) and cannot be deleted", taskCount,
		))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, teamserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Team", id)
		}
		s.cfg.Log.Error("Failed to delete team", "id", id, "error", err)
		return apperrors.Internal("Failed to delete team", err)
	}

	s.cfg.Log.Info("Team deleted", "id", id)
	s.notifier.DataChanged(ctx, entityName, model.OpDelete, id, nil)

	return nil
}

func (s *teamService) mapRepoError(id string, err error) error {
	if errors.Is(err, teamserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Team", id)
	}
	if errors.Is(err, teamserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid team ID format")
	}
	s.cfg.Log.Error("Failed to load team", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve team", err)
}

func applyTeamUpdates(team *model.Team, updates *model.TeamUpdate) {
	if updates.Name != "" {
		team.Name = updates.Name
	}
	if updates.LongName != nil {
		team.LongName = *updates.LongName
	}
	if updates.Color != nil {
		team.Color = *updates.Color
	}
}
