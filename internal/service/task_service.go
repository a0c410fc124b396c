package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
)

type TaskService struct {
	db           *gorm.DB
	tasks        *repository.TaskRepository
	projects     *repository.ProjectRepository
	requirements *repository.RequirementRepository
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{
		db:           db,
		tasks:        repository.NewTaskRepository(db),
		projects:     repository.NewProjectRepository(db),
		requirements: repository.NewRequirementRepository(db),
	}
}

type CreateTaskInput struct {
	ProjectID          uint
	RequirementID      *uint
	Title              string
	Description        string
	Status             model.TaskStatus
	Priority           model.Priority
	Category           string
	AssignedUserID     *uint
	CreatedBy          uint
	DueDate            *time.Time
	EstimatedHours     int
	ProgressPercentage int
	Blockers           string
	Notes              string
}

type UpdateTaskInput struct {
	Title              *string
	Description        *string
	Status             *model.TaskStatus
	Priority           *model.Priority
	Category           *string
	AssignedUserID     *uint
	DueDate            *time.Time
	EstimatedHours     *int
	ProgressPercentage *int
	Blockers           *string
	Notes              *string
}

type ProgressInput struct {
	ProgressPercentage int
	Notes              *string
}

type TimeLogInput struct {
	UserID      uint
	Description string
	HoursWorked float64
	WorkDate    *time.Time
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, *filter.Status)
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *filter.Priority)
	}
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: task %d", ErrNotFound, id)
		}
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, status)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}
	if input.ProgressPercentage < 0 || input.ProgressPercentage > 100 {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0,100]", ErrInvalidInput)
	}

	if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}
	if input.RequirementID != nil {
		if _, err := s.requirements.Get(ctx, *input.RequirementID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: requirement %d", ErrNotFound, *input.RequirementID)
			}
			return nil, err
		}
	}

	task := &model.Task{
		ProjectID:          input.ProjectID,
		RequirementID:      input.RequirementID,
		Title:              input.Title,
		Description:        input.Description,
		Status:             status,
		Priority:           priority,
		Category:           input.Category,
		AssignedUserID:     input.AssignedUserID,
		CreatedBy:          input.CreatedBy,
		DueDate:            input.DueDate,
		EstimatedHours:     input.EstimatedHours,
		ProgressPercentage: input.ProgressPercentage,
		Blockers:           input.Blockers,
		Notes:              input.Notes,
	}
	if status == model.TaskStatusInProgress {
		now := time.Now().UTC()
		task.StartedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies the requested field changes and then the status lifecycle:
// a status change wins over a progress change when both are present.
func (s *TaskService) Update(ctx context.Context, id uint, input UpdateTaskInput) (*model.Task, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, *input.Status)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *input.Priority)
	}
	if input.ProgressPercentage != nil && (*input.ProgressPercentage < 0 || *input.ProgressPercentage > 100) {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0,100]", ErrInvalidInput)
	}

	var updated *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", ErrNotFound, id)
			}
			return err
		}

		oldStatus := task.Status

		if input.Title != nil {
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.Status != nil {
			task.Status = *input.Status
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
		}
		if input.Category != nil {
			task.Category = *input.Category
		}
		if input.AssignedUserID != nil {
			task.AssignedUserID = input.AssignedUserID
		}
		if input.DueDate != nil {
			task.DueDate = input.DueDate
		}
		if input.EstimatedHours != nil {
			task.EstimatedHours = *input.EstimatedHours
		}
		if input.ProgressPercentage != nil {
			task.ProgressPercentage = *input.ProgressPercentage
		}
		if input.Blockers != nil {
			task.Blockers = *input.Blockers
		}
		if input.Notes != nil {
			task.Notes = *input.Notes
		}

		if task.Status != oldStatus {
			applyTaskStatusChange(task)
		} else if input.ProgressPercentage != nil {
			applyTaskProgressChange(task)
		}

		task.TimeLogs = nil
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateProgress is the progress-driven path: percentage moves first and
// status follows.
func (s *TaskService) UpdateProgress(ctx context.Context, id uint, input ProgressInput) (*model.Task, error) {
	if input.ProgressPercentage < 0 || input.ProgressPercentage > 100 {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0,100]", ErrInvalidInput)
	}

	var updated *model.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", ErrNotFound, id)
			}
			return err
		}

		task.ProgressPercentage = input.ProgressPercentage
		if input.Notes != nil {
			task.Notes = *input.Notes
		}
		applyTaskProgressChange(task)

		task.TimeLogs = nil
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)
		if err := tasks.DeleteTimeLogsByTask(ctx, id); err != nil {
			return err
		}
		return tasks.Delete(ctx, id)
	})
}

func (s *TaskService) ListTimeLogs(ctx context.Context, taskID uint) ([]model.TaskTimeLog, error) {
	if _, err := s.Get(ctx, taskID); err != nil {
		return nil, err
	}
	return s.tasks.ListTimeLogs(ctx, taskID)
}

// AddTimeLog records hours and refreshes the task's actual_hours rollup in
// the same transaction. actual_hours is the integer truncation of the
// decimal sum; the fractional part stays in the individual log rows.
func (s *TaskService) AddTimeLog(ctx context.Context, taskID uint, input TimeLogInput) (*model.TaskTimeLog, error) {
	if input.HoursWorked < 0 {
		return nil, fmt.Errorf("%w: hours_worked must be non-negative", ErrInvalidInput)
	}

	var created *model.TaskTimeLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.tasks.WithTx(tx)

		task, err := tasks.Get(ctx, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
			}
			return err
		}

		workDate := time.Now().UTC()
		if input.WorkDate != nil {
			workDate = *input.WorkDate
		}
		log := &model.TaskTimeLog{
			TaskID:      taskID,
			UserID:      input.UserID,
			Description: input.Description,
			HoursWorked: input.HoursWorked,
			WorkDate:    workDate,
		}
		if err := tasks.CreateTimeLog(ctx, log); err != nil {
			return err
		}

		total, err := tasks.SumLoggedHours(ctx, taskID)
		if err != nil {
			return err
		}
		task.ActualHours = int(total)

		task.TimeLogs = nil
		if err := tasks.Save(ctx, task); err != nil {
			return err
		}
		created = log
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// applyTaskStatusChange runs after a status change has been assigned:
// first move into in_progress stamps started_at, completion stamps
// completed_at and forces the percentage, moving back to todo/blocked
// clears the completion stamp.
func applyTaskStatusChange(task *model.Task) {
	now := time.Now().UTC()
	switch task.Status {
	case model.TaskStatusInProgress:
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
	case model.TaskStatusCompleted:
		task.CompletedAt = &now
		task.ProgressPercentage = 100
	case model.TaskStatusTodo, model.TaskStatusBlocked:
		task.CompletedAt = nil
	}
}

// applyTaskProgressChange derives status from the percentage: 100 completes
// the task, any progress moves a todo task into in_progress.
func applyTaskProgressChange(task *model.Task) {
	now := time.Now().UTC()
	switch {
	case task.ProgressPercentage == 100 && task.Status != model.TaskStatusCompleted:
		task.Status = model.TaskStatusCompleted
		task.CompletedAt = &now
	case task.ProgressPercentage > 0 && task.Status == model.TaskStatusTodo:
		task.Status = model.TaskStatusInProgress
		if task.StartedAt == nil {
			task.StartedAt = &now
		}
	}
}
