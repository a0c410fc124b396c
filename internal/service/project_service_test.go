package service

import (
	"errors"
	"testing"

	"github.com/emert/crm-service/internal/model"
)

func TestProjectKanbanKeepsCancelledOffBoard(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	tasks := []model.Task{
		{ProjectID: project.ID, Title: "a", Status: model.TaskStatusTodo, CreatedBy: 1},
		{ProjectID: project.ID, Title: "b", Status: model.TaskStatusInProgress, CreatedBy: 1},
		{ProjectID: project.ID, Title: "c", Status: model.TaskStatusCompleted, CreatedBy: 1},
		{ProjectID: project.ID, Title: "d", Status: model.TaskStatusBlocked, CreatedBy: 1},
		{ProjectID: project.ID, Title: "e", Status: model.TaskStatusCancelled, CreatedBy: 1},
	}
	for i := range tasks {
		if err := database.Create(&tasks[i]).Error; err != nil {
			t.Fatalf("seed task: %v", err)
		}
	}

	svc := NewProjectService(database)
	board, err := svc.Kanban(ctx, project.ID)
	if err != nil {
		t.Fatalf("kanban: %v", err)
	}

	total := len(board.Todo) + len(board.InProgress) + len(board.Completed) + len(board.Blocked)
	if total != 4 {
		t.Fatalf("expected 4 tasks on board got %d", total)
	}
	if len(board.Blocked) != 1 || board.Blocked[0].Title != "d" {
		t.Fatalf("unexpected blocked bucket %+v", board.Blocked)
	}
}

func TestProjectRequirementsSummary(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	requirements := []model.Requirement{
		{ProjectID: project.ID, Title: "a", Status: model.RequirementStatusCompleted, Priority: model.PriorityHigh, CreatedBy: 1},
		{ProjectID: project.ID, Title: "b", Status: model.RequirementStatusPending, Priority: model.PriorityCritical, CreatedBy: 1},
		{ProjectID: project.ID, Title: "c", Status: model.RequirementStatusInProgress, Priority: model.PriorityLow, CreatedBy: 1},
		{ProjectID: project.ID, Title: "d", Status: model.RequirementStatusBlocked, Priority: model.PriorityMedium, CreatedBy: 1},
	}
	for i := range requirements {
		if err := database.Create(&requirements[i]).Error; err != nil {
			t.Fatalf("seed requirement: %v", err)
		}
	}

	svc := NewProjectService(database)
	summary, err := svc.RequirementsSummary(ctx, project.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalRequirements != 4 || summary.Completed != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.HighPriority != 2 {
		t.Fatalf("expected 2 high priority got %d", summary.HighPriority)
	}
	if summary.CompletionPercentage != 25 {
		t.Fatalf("expected 25%% completion got %v", summary.CompletionPercentage)
	}
}

func TestProjectStatusOverviewMergesBlockers(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	update := model.ProjectUpdate{
		ProjectID:          project.ID,
		Title:              "Week 3",
		ProgressPercentage: 60,
		NextSteps:          "ship beta",
		Blockers:           "waiting on content",
		CreatedBy:          1,
	}
	if err := database.Create(&update).Error; err != nil {
		t.Fatalf("seed update: %v", err)
	}
	blocked := model.Task{
		ProjectID: project.ID,
		Title:     "Deploy",
		Status:    model.TaskStatusBlocked,
		Blockers:  "no prod credentials",
		CreatedBy: 1,
	}
	if err := database.Create(&blocked).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	done := model.Task{ProjectID: project.ID, Title: "Design", Status: model.TaskStatusCompleted, CreatedBy: 1}
	if err := database.Create(&done).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	svc := NewProjectService(database)
	overview, err := svc.StatusOverview(ctx, project.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if overview.LatestProgress != 60 {
		t.Fatalf("expected latest progress 60 got %d", overview.LatestProgress)
	}
	if overview.NextSteps != "ship beta" {
		t.Fatalf("expected next steps carried got %q", overview.NextSteps)
	}
	if len(overview.CurrentBlockers) != 2 {
		t.Fatalf("expected 2 blockers got %d", len(overview.CurrentBlockers))
	}
	if overview.TasksCompletion != 50 {
		t.Fatalf("expected 50%% task completion got %v", overview.TasksCompletion)
	}
}

func TestProjectNextStepsRollup(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	withSteps := model.ProjectUpdate{ProjectID: project.ID, Title: "u1", NextSteps: "book review call", CreatedBy: 1}
	if err := database.Create(&withSteps).Error; err != nil {
		t.Fatalf("seed update: %v", err)
	}
	pending := model.Requirement{ProjectID: project.ID, Title: "r1", Status: model.RequirementStatusPending, CreatedBy: 1}
	if err := database.Create(&pending).Error; err != nil {
		t.Fatalf("seed requirement: %v", err)
	}
	inProgress := model.Task{ProjectID: project.ID, Title: "t1", Status: model.TaskStatusInProgress, CreatedBy: 1}
	if err := database.Create(&inProgress).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	svc := NewProjectService(database)
	rollup, err := svc.NextSteps(ctx, project.ID)
	if err != nil {
		t.Fatalf("next steps: %v", err)
	}

	if rollup.LatestNextSteps != "book review call" {
		t.Fatalf("expected latest next steps got %q", rollup.LatestNextSteps)
	}
	if len(rollup.PendingRequirements) != 1 || len(rollup.InProgressTasks) != 1 {
		t.Fatalf("unexpected rollup %+v", rollup)
	}
}

func TestProjectOperationsRequireExistingProject(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()

	svc := NewProjectService(database)
	if _, err := svc.Kanban(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
	if _, err := svc.StatusOverview(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
	if _, err := svc.Create(ctx, CreateProjectInput{ClientID: 42, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for missing client got %v", err)
	}
}

func TestProjectDeleteCascades(t *testing.T) {
	database := setupTestDB(t, t.Name())
	ctx := testContext()
	client := seedClient(t, database)
	project := seedProject(t, database, client.ID)

	task := model.Task{ProjectID: project.ID, Title: "t", CreatedBy: 1}
	if err := database.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	quote := model.Quote{ClientID: client.ID, ProjectID: &project.ID, QuoteNumber: "Q-300", Title: "q"}
	if err := database.Create(&quote).Error; err != nil {
		t.Fatalf("seed quote: %v", err)
	}

	svc := NewProjectService(database)
	if err := svc.Delete(ctx, project.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var projects, tasks, quotes int64
	database.Model(&model.Project{}).Count(&projects)
	database.Model(&model.Task{}).Count(&tasks)
	database.Model(&model.Quote{}).Count(&quotes)
	if projects != 0 || tasks != 0 || quotes != 0 {
		t.Fatalf("expected subtree removed: projects=%d tasks=%d quotes=%d", projects, tasks, quotes)
	}

	// The client survives its project's deletion.
	var clients int64
	database.Model(&model.Client{}).Count(&clients)
	if clients != 1 {
		t.Fatalf("expected client kept got %d", clients)
	}
}
