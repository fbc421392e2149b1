package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dayplanner/internal/domain"
)

type taskService struct {
	taskRepo       domain.TaskRepository
	contextTimeout time.Duration
}

func NewTaskService(taskRepo domain.TaskRepository, timeout time.Duration) domain.TaskService {
	return &taskService{
		taskRepo:       taskRepo,
		contextTimeout: timeout,
	}
}

func (s *taskService) CreateTask(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if task.UserID == "" {
		return fmt.Errorf("task owner is required: %w", domain.ErrInvalidInput)
	}
	if task.Title == "" {
		return fmt.Errorf("task title is required: %w", domain.ErrInvalidInput)
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Category == "" {
		task.Category = "general"
	}

	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return s.taskRepo.Create(ctx, task)
}

func (s *taskService) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID string, filter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tasks, err := s.taskRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if task.ID == "" || task.UserID == "" {
		return domain.ErrInvalidInput
	}
	current, err := s.taskRepo.GetByID(ctx, task.UserID, task.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get task: %w", err)
	}
	task.CreatedAt = current.CreatedAt
	// Status flips stamp or clear the completion time.
	if task.Status == domain.TaskStatusCompleted && current.Status != domain.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}
	if task.Status != domain.TaskStatusCompleted {
		task.CompletedAt = nil
	}
	task.UpdatedAt = time.Now()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *taskService) CompleteTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	task, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return s.complete(ctx, task)
}

func (s *taskService) CompleteTaskByTitle(ctx context.Context, userID, fragment string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if fragment == "" {
		return nil, domain.ErrInvalidInput
	}
	task, err := s.taskRepo.FindByTitle(ctx, userID, fragment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find task by title: %w", err)
	}
	return s.complete(ctx, task)
}

func (s *taskService) complete(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	now := time.Now()
	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.taskRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
