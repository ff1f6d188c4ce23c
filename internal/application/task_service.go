package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
)

// AddTask appends an open task to the account's list.
func (s *Service) AddTask(ctx context.Context, accountID, title, description string) (*entity.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrMissingTaskTitle
	}
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	task := entity.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   s.Now().UTC(),
	}
	acc.Tasks = append(acc.Tasks, task)
	if err := s.Repo.Save(ctx, acc); err != nil {
		return nil, upstream(err)
	}
	return &task, nil
}

// ToggleTask flips the completed flag and returns the updated task.
func (s *Service) ToggleTask(ctx context.Context, accountID, taskID string) (*entity.Task, error) {
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return nil, err
	}
	t := acc.FindTask(taskID)
	if t == nil {
		return nil, ErrTaskNotFound
	}
	t.Completed = !t.Completed
	updated := *t
	if err := s.Repo.Save(ctx, acc); err != nil {
		return nil, upstream(err)
	}
	return &updated, nil
}

// RemoveTask deletes a task by id. Unknown ids leave the list unchanged.
func (s *Service) RemoveTask(ctx context.Context, accountID, taskID string) error {
	acc, err := s.load(ctx, accountID, false)
	if err != nil {
		return err
	}
	if !acc.RemoveTask(taskID) {
		return nil
	}
	if err := s.Repo.Save(ctx, acc); err != nil {
		return upstream(err)
	}
	return nil
}
