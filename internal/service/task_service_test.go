package service

import (
	"errors"
	"testing"

	"github.com/emert/crm-service/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func taskStatusPtr(s model.TaskStatus) *model.TaskStatus { return &s }

func TestTaskStatusLifecycle(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)
	task, err := svc.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Build landing page",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.Status != model.TaskStatusTodo {
		t.Fatalf("expected todo status got %s", task.Status)
	}
	if task.StartedAt != nil {
		t.Fatalf("expected nil started_at on todo task")
	}

	task, err = svc.Update(ctx, task.ID, UpdateTaskInput{Status: taskStatusPtr(model.TaskStatusInProgress)})
	if err != nil {
		t.Fatalf("update to in_progress: %v", err)
	}
	if task.StartedAt == nil {
		t.Fatalf("expected started_at set on first in_progress")
	}
	firstStart := *task.StartedAt

	task, err = svc.Update(ctx, task.ID, UpdateTaskInput{Status: taskStatusPtr(model.TaskStatusCompleted)})
	if err != nil {
		t.Fatalf("update to completed: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected completed_at set")
	}
	if task.ProgressPercentage != 100 {
		t.Fatalf("expected progress forced to 100 got %d", task.ProgressPercentage)
	}

	// Reopening clears the completion stamp but keeps the original start.
	task, err = svc.Update(ctx, task.ID, UpdateTaskInput{Status: taskStatusPtr(model.TaskStatusTodo)})
	if err != nil {
		t.Fatalf("update to todo: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared")
	}

	task, err = svc.Update(ctx, task.ID, UpdateTaskInput{Status: taskStatusPtr(model.TaskStatusInProgress)})
	if err != nil {
		t.Fatalf("update back to in_progress: %v", err)
	}
	if task.StartedAt == nil || !task.StartedAt.Equal(firstStart) {
		t.Fatalf("expected started_at preserved across reopen")
	}
}

func TestTaskCreatedInProgressStampsStart(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)
	task, err := svc.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Spike search index",
		Status:    model.TaskStatusInProgress,
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.StartedAt == nil {
		t.Fatalf("expected started_at on task created in_progress")
	}
}

func TestTaskProgressDrivesStatus(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)
	task, err := svc.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Write copy",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err = svc.UpdateProgress(ctx, task.ID, ProgressInput{ProgressPercentage: 40})
	if err != nil {
		t.Fatalf("progress 40: %v", err)
	}
	if task.Status != model.TaskStatusInProgress {
		t.Fatalf("expected in_progress after partial progress got %s", task.Status)
	}
	if task.StartedAt == nil {
		t.Fatalf("expected started_at set by progress path")
	}

	task, err = svc.UpdateProgress(ctx, task.ID, ProgressInput{ProgressPercentage: 100})
	if err != nil {
		t.Fatalf("progress 100: %v", err)
	}
	if task.Status != model.TaskStatusCompleted {
		t.Fatalf("expected completed after full progress got %s", task.Status)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected completed_at set by progress path")
	}
}

func TestTaskStatusChangeWinsOverProgress(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)
	task, err := svc.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "QA pass",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 100% alongside a move to blocked must not complete the task.
	task, err = svc.Update(ctx, task.ID, UpdateTaskInput{
		Status:             taskStatusPtr(model.TaskStatusBlocked),
		ProgressPercentage: intPtr(100),
		Blockers:           strPtr("waiting on staging access"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if task.Status != model.TaskStatusBlocked {
		t.Fatalf("expected blocked got %s", task.Status)
	}
	if task.CompletedAt != nil {
		t.Fatalf("expected no completion stamp on blocked task")
	}
	if task.ProgressPercentage != 100 {
		t.Fatalf("expected requested percentage kept got %d", task.ProgressPercentage)
	}
}

func TestAddTimeLogTruncatesActualHours(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)
	task, err := svc.Create(ctx, CreateTaskInput{
		ProjectID: project.ID,
		Title:     "Data migration",
		CreatedBy: 1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.AddTimeLog(ctx, task.ID, TimeLogInput{UserID: 1, HoursWorked: 2.5}); err != nil {
		t.Fatalf("log 2.5h: %v", err)
	}
	task, err = svc.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.ActualHours != 2 {
		t.Fatalf("expected actual_hours 2 after 2.5h got %d", task.ActualHours)
	}

	if _, err := svc.AddTimeLog(ctx, task.ID, TimeLogInput{UserID: 1, HoursWorked: 1.5}); err != nil {
		t.Fatalf("log 1.5h: %v", err)
	}
	task, err = svc.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.ActualHours != 4 {
		t.Fatalf("expected actual_hours 4 after 2.5h+1.5h got %d", task.ActualHours)
	}

	logs, err := svc.ListTimeLogs(ctx, task.ID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs got %d", len(logs))
	}
}

func TestTaskCreateValidation(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	svc := NewTaskService(database)

	if _, err := svc.Create(ctx, CreateTaskInput{ProjectID: project.ID, Title: "  ", CreatedBy: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank title got %v", err)
	}
	if _, err := svc.Create(ctx, CreateTaskInput{ProjectID: project.ID, Title: "x", Status: "archived", CreatedBy: 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown status got %v", err)
	}
	if _, err := svc.Create(ctx, CreateTaskInput{ProjectID: 9999, Title: "x", CreatedBy: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing project got %v", err)
	}
}
