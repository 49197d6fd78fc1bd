package service

import (
	"context"
	"errors"
	"fmt"

	personserrors "orgboard/internal/persons/errors"
	"orgboard/internal/persons/repository"
	"orgboard/internal/persons/validator"
	"orgboard/pkg/config"
	apperrors "orgboard/pkg/errors"
	"orgboard/pkg/model"
)

const entityName = "person"

// TeamChecker verifies that a referenced team exists. Satisfied by the
// teams repository.
type TeamChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// TaskChecker reports task assignments that pin a person to a team.
// Satisfied by the tasks repository.
type TaskChecker interface {
	CountByPerson(ctx context.Context, personID string) (int64, error)
	CountByTeamAndPerson(ctx context.Context, teamID, personID string) (int64, error)
}

type Notifier interface {
	DataChanged(ctx context.Context, entity, operation, rowID string, payload any)
}

type PersonService interface {
	Create(ctx context.Context, person *model.Person) error
	GetByID(ctx context.Context, id string) (*model.Person, error)
	GetAll(ctx context.Context, filter string, limit int, offset int64) ([]*model.Person, int64, error)
	Update(ctx context.Context, id string, updates *model.PersonUpdate) (*model.Person, error)
	Delete(ctx context.Context, id string) error
}

type personService struct {
	repo      repository.PersonRepository
	teams     TeamChecker
	tasks     TaskChecker
	validator *validator.PersonValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewPersonService(
	repo repository.PersonRepository,
	teams TeamChecker,
	tasks TaskChecker,
	validator *validator.PersonValidator,
	notifier Notifier,
	cfg *config.Config,
) PersonService {
	return &personService{
		repo:      repo,
		teams:     teams,
		tasks:     tasks,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

func (s *personService) Create(ctx context.Context, person *model.Person) error {
	if err := s.validator.Validate(person); err != nil {
		s.cfg.Log.Warn("Person validation failed", "name", person.DisplayName(), "error", err)
		return apperrors.Validation("Person validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkTeamsExist(ctx, person.TeamIDs); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, person); err != nil {
		s.cfg.Log.Error("Failed to create person", "name", person.DisplayName(), "error", err)
		return apperrors.Internal("Failed to create person", err)
	}

	s.cfg.Log.Info("Person created", "id", person.ID, "name", person.DisplayName())
	s.notifier.DataChanged(ctx, entityName, model.OpCreate, person.ID, person)

	return nil
}

func (s *personService) GetByID(ctx context.Context, id string) (*model.Person, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Person ID cannot be empty")
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}
	return person, nil
}

func (s *personService) GetAll(ctx context.Context, filter string, limit int, offset int64) ([]*model.Person, int64, error) {
	persons, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list persons", "filter", filter, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve persons", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count persons", "filter", filter, "error", err)
		return nil, 0, apperrors.Internal("Failed to count persons", err)
	}

	return persons, total, nil
}

// Update applies the changes and enforces task consistency: a person
// stays in every team for which they are still the responsible person
// of an assigned task.
func (s *personService) Update(ctx context.Context, id string, updates *model.PersonUpdate) (*model.Person, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Person ID cannot be empty")
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(id, err)
	}

	previousTeams := person.TeamIDs
	applyPersonUpdates(person, updates)

	if err := s.validator.Validate(person); err != nil {
		s.cfg.Log.Warn("Person validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Person validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.checkTeamsExist(ctx, person.TeamIDs); err != nil {
		return nil, err
	}

	for _, teamID := range removedTeams(previousTeams, person.TeamIDs) {
		pinned, err := s.tasks.CountByTeamAndPerson(ctx, teamID, id)
		if err != nil {
			s.cfg.Log.Error("Failed to check task assignments", "person_id", id, "team_id", teamID, "error", err)
			return nil, apperrors.Internal("Failed to check task assignments", err)
		}
		if pinned > 0 {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"%s is the responsible person of %d task(s) assigned to this team and cannot leave it",
				person.DisplayName(), pinned,
			))
		}
	}

	if err := s.repo.Update(ctx, id, person); err != nil {
		if errors.Is(err, personserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Person", id)
		}
		s.cfg.Log.Error("Failed to update person", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update person", err)
	}

	s.cfg.Log.Info("Person updated", "id", id, "name", person.DisplayName())
	s.notifier.DataChanged(ctx, entityName, model.OpUpdate, id, person)

	return person, nil
}

func (s *personService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Person ID cannot be empty")
	}

	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.mapRepoError(id, err)
	}

	assigned, err := s.tasks.CountByPerson(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to check task assignments", "person_id", id, "error", err)
		return apperrors.Internal("Failed to check task assignments", err)
	}
	if assigned > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"%s is the responsible person of %d task(s) and cannot be deleted",
			person.DisplayName(), assigned,
		))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, personserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Person", id)
		}
		s.cfg.Log.Error("Failed to delete person", "id", id, "error", err)
		return apperrors.Internal("Failed to delete person", err)
	}

	s.cfg.Log.Info("Person deleted", "id", id, "name", person.DisplayName())
	s.notifier.DataChanged(ctx, entityName, model.OpDelete, id, nil)

	return nil
}

func (s *personService) checkTeamsExist(ctx context.Context, teamIDs []string) error {
	for _, teamID := range teamIDs {
		exists, err := s.teams.Exists(ctx, teamID)
		if err != nil {
			s.cfg.Log.Error("Failed to verify team", "team_id", teamID, "error", err)
			return apperrors.Internal("Failed to verify team membership", err)
		}
		if !exists {
			return apperrors.Validation("Person validation failed", map[string]any{
				"error": fmt.Sprintf("team %s does not exist", teamID),
			})
		}
	}
	return nil
}

func (s *personService) mapRepoError(id string, err error) error {
	if errors.Is(err, personserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Person", id)
	}
	if errors.Is(err, personserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid person ID format")
	}
	s.cfg.Log.Error("Failed to load person", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve person", err)
}

func applyPersonUpdates(person *model.Person, updates *model.PersonUpdate) {
	if updates.FirstName != "" {
		person.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		person.LastName = updates.LastName
	}
	if !updates.Birthdate.IsZero() {
		person.Birthdate = updates.Birthdate
	}
	if updates.Email != nil {
		person.Email = *updates.Email
	}
	if updates.TeamIDs != nil {
		person.TeamIDs = updates.TeamIDs
	}
}

func removedTeams(before, after []string) []string {
	kept := make(map[string]struct{}, len(after))
	for _, id := range after {
		kept[id] = struct{}{}
	}

	var removed []string
	for _, id := range before {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}
	return removed
}
