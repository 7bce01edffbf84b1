package tasks

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"

	"github.com/taskward/taskward/auth"
)

// Service applies ownership rules on top of the tasks repository.
// Every operation resolves the acting user from the ambient request
// context and scopes reads and writes to that user's tasks.
type Service struct {
	repo   Tasks
	logger auth.Logger
}

func NewService(repo Tasks, logger auth.Logger) *Service {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
}

type UpdateTaskInput struct {
	Title       string
	Description string
	Status      Status
}

func (s *Service) Create(ctx context.Context, input CreateTaskInput) (*Task, error) {
	owner, ok := auth.FromContext(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	task := &Task{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     owner.ID,
	}

	task, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create task")
	}

	s.logger.Debug("task created", "task_id", task.ID, "owner_id", owner.ID)

	return task, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Task, error) {
	owner, ok := auth.FromContext(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	return s.findOwned(ctx, id, owner.ID)
}

func (s *Service) List(ctx context.Context) ([]*Task, error) {
	owner, ok := auth.FromContext(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	records, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not list tasks")
	}

	return records, nil
}

// Update replaces the task's title, description and status wholesale.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*Task, error) {
	owner, ok := auth.FromContext(ctx)
	if !ok {
		return nil, auth.ErrUnauthenticated
	}

	task, err := s.findOwned(ctx, id, owner.ID)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(string(input.Status))
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = status

	task, err = s.repo.Save(ctx, task)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update task")
	}

	return task, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	owner, ok := auth.FromContext(ctx)
	if !ok {
		return auth.ErrUnauthenticated
	}

	if _, err := s.findOwned(ctx, id, owner.ID); err != nil {
		return err
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete task")
	}

	return nil
}

// findOwned fetches a task and verifies ownership. A foreign task is
// reported exactly like a missing one.
func (s *Service) findOwned(ctx context.Context, id, ownerID uuid.UUID) (*Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) || goerrors.IsNotFound(err) {
			return nil, ErrTaskNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not load task")
	}

	if task.OwnerID != ownerID {
		s.logger.Debug("task access denied", "task_id", id, "owner_id", ownerID)
		return nil, ErrTaskNotFound
	}

	return task, nil
}
