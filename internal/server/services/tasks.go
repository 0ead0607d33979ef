package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/server/jobs"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
	"github.com/devhubhq/devhub/internal/server/repositories/tasks"
)

// TaskService implements task CRUD. Status transitions are handed to the
// activity recorder instead of being written inline.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    *jobs.Recorder
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager, recorder *jobs.Recorder) *TaskService {
	return &TaskService{db: db, repomanager: m, recorder: recorder}
}

func (s *TaskService) List(ctx context.Context, projectID, status string) ([]*models.Task, error) {
	if status != "" && !models.ValidTaskStatus(status) {
		return nil, NewValidationError("Status is not included in the list")
	}
	return s.repomanager.Tasks(s.db).List(ctx, tasks.Filter{ProjectID: projectID, Status: status})
}

func (s *TaskService) Find(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errors.New("Task not found")
		}
		return nil, fmt.Errorf("error searching task: %w", err)
	}
	return task, nil
}

func (s *TaskService) checkAssignee(ctx context.Context, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, *assigneeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errors.New("User not found")
		}
		return fmt.Errorf("error searching user: %w", err)
	}
	return nil
}

type CreateTaskParams struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	DueAt       *time.Time
	AssigneeID  *string
}

func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if params.Title == "" {
		return nil, NewValidationError("Title can't be blank")
	}
	if params.Status == "" {
		params.Status = models.TaskStatusPending
	}
	if !models.ValidTaskStatus(params.Status) {
		return nil, NewValidationError("Status is not included in the list")
	}

	if _, err := s.repomanager.Projects(s.db).GetByID(ctx, params.ProjectID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errors.New("Project not found")
		}
		return nil, fmt.Errorf("error searching project: %w", err)
	}
	if err := s.checkAssignee(ctx, params.AssigneeID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   params.ProjectID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		DueAt:       params.DueAt,
		AssigneeID:  params.AssigneeID,
	}

	task, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// UpdateTaskParams carries optional field updates; nil means "leave as is".
// ClearAssignee removes the assignee regardless of AssigneeID.
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Status        *string
	DueAt         *time.Time
	AssigneeID    *string
	ClearAssignee bool
}

func (s *TaskService) Update(ctx context.Context, id string, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	previousStatus := task.Status

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.DueAt != nil {
		task.DueAt = params.DueAt
	}
	if params.ClearAssignee {
		task.AssigneeID = nil
	} else if params.AssigneeID != nil {
		task.AssigneeID = params.AssigneeID
	}

	if task.Title == "" {
		return nil, NewValidationError("Title can't be blank")
	}
	if !models.ValidTaskStatus(task.Status) {
		return nil, NewValidationError("Status is not included in the list")
	}
	if err := s.checkAssignee(ctx, task.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.repomanager.Tasks(s.db).Update(ctx, task); err != nil {
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	if task.Status != previousStatus {
		s.recorder.Enqueue(jobs.StatusChange{TaskID: task.ID, From: previousStatus, To: task.Status})
	}

	return task, nil
}

// AssignToUser sets the assignee, or clears it when userID is nil.
func (s *TaskService) AssignToUser(ctx context.Context, id string, userID *string) (*models.Task, error) {
	if userID == nil {
		return s.Update(ctx, id, UpdateTaskParams{ClearAssignee: true})
	}
	return s.Update(ctx, id, UpdateTaskParams{AssigneeID: userID})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Tasks(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errors.New("Task not found")
		}
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}

func (s *TaskService) ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).ListByAssignee(ctx, userID)
}
