package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redmonkez12/go-task-api/internal/logging"
)

// Store is the persistence the task service needs.
type Store interface {
	Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*Task, error)
	List(ctx context.Context, owner uuid.UUID, filter ListFilter) ([]*Task, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*Task, error)
	Update(ctx context.Context, owner, id uuid.UUID, in UpdateInput) (*Task, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

// Service implements task CRUD for a single owner. A task owned by someone
// else is indistinguishable from a missing one.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*Task, error) {
	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	t, err := s.store.Create(ctx, owner, in)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task created", "task_id", t.ID, "owner_id", owner)
	return t, nil
}

// List returns the owner's tasks. An unrecognized status is ignored.
func (s *Service) List(ctx context.Context, owner uuid.UUID, filter ListFilter) ([]*Task, error) {
	if !filter.Status.Valid() {
		filter.Status = ""
	}

	return s.store.List(ctx, owner, filter)
}

func (s *Service) Get(ctx context.Context, owner uuid.UUID, id string) (*Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	return s.store.Get(ctx, owner, taskID)
}

func (s *Service) Update(ctx context.Context, owner uuid.UUID, id string, in UpdateInput) (*Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	in = in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	return s.store.Update(ctx, owner, taskID, in)
}

func (s *Service) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	taskID, err := parseID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, owner, taskID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Debug("task deleted", "task_id", taskID, "owner_id", owner)
	return nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed == uuid.Nil {
		return uuid.Nil, ErrInvalidID
	}
	return parsed, nil
}
