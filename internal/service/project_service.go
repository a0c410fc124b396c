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

type ProjectService struct {
	db           *gorm.DB
	projects     *repository.ProjectRepository
	clients      *repository.ClientRepository
	tasks        *repository.TaskRepository
	requirements *repository.RequirementRepository
	updates      *repository.UpdateRepository
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		db:           db,
		projects:     repository.NewProjectRepository(db),
		clients:      repository.NewClientRepository(db),
		tasks:        repository.NewTaskRepository(db),
		requirements: repository.NewRequirementRepository(db),
		updates:      repository.NewUpdateRepository(db),
	}
}

type CreateProjectInput struct {
	ClientID       uint
	Name           string
	Description    string
	Status         model.ProjectStatus
	ServiceType    string
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         float64
	AssignedUserID *uint
}

type UpdateProjectInput struct {
	Name           *string
	Description    *string
	Status         *model.ProjectStatus
	ServiceType    *string
	StartDate      *time.Time
	EndDate        *time.Time
	Budget         *float64
	AssignedUserID *uint
}

func (s *ProjectService) List(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, *status)
	}
	return s.projects.List(ctx, status)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	project, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, id)
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = model.ProjectStatusProposal
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, status)
	}

	if _, err := s.clients.Get(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrNotFound, input.ClientID)
		}
		return nil, err
	}

	project := &model.Project{
		ClientID:       input.ClientID,
		Name:           input.Name,
		Description:    input.Description,
		Status:         status,
		ServiceType:    input.ServiceType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		Budget:         input.Budget,
		AssignedUserID: input.AssignedUserID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, input UpdateProjectInput) (*model.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, *input.Status)
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.ServiceType != nil {
		project.ServiceType = *input.ServiceType
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}
	if input.Budget != nil {
		project.Budget = *input.Budget
	}
	if input.AssignedUserID != nil {
		project.AssignedUserID = input.AssignedUserID
	}

	if err := s.projects.Save(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project and its whole subtree: tasks with time logs,
// requirements, updates with attachments, project-scoped quotes with items
// and documents, and communications.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProjectTree(ctx, tx, id)
	})
}

func (s *ProjectService) ListTasks(ctx context.Context, projectID uint) ([]model.Task, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// Kanban partitions the project's tasks into board buckets by status.
// Cancelled tasks stay off the board.
func (s *ProjectService) Kanban(ctx context.Context, projectID uint) (*model.KanbanBoard, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	board := &model.KanbanBoard{
		Todo:       []model.Task{},
		InProgress: []model.Task{},
		Completed:  []model.Task{},
		Blocked:    []model.Task{},
	}
	for _, task := range tasks {
		switch task.Status {
		case model.TaskStatusTodo:
			board.Todo = append(board.Todo, task)
		case model.TaskStatusInProgress:
			board.InProgress = append(board.InProgress, task)
		case model.TaskStatusCompleted:
			board.Completed = append(board.Completed, task)
		case model.TaskStatusBlocked:
			board.Blocked = append(board.Blocked, task)
		}
	}
	return board, nil
}

func (s *ProjectService) ListRequirements(ctx context.Context, projectID uint) ([]model.Requirement, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.requirements.ListByProject(ctx, projectID)
}

func (s *ProjectService) RequirementsSummary(ctx context.Context, projectID uint) (*model.RequirementsSummary, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	requirements, err := s.requirements.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summary := &model.RequirementsSummary{TotalRequirements: len(requirements)}
	for _, req := range requirements {
		switch req.Status {
		case model.RequirementStatusCompleted:
			summary.Completed++
		case model.RequirementStatusInProgress:
			summary.InProgress++
		case model.RequirementStatusPending:
			summary.Pending++
		case model.RequirementStatusBlocked:
			summary.Blocked++
		}
		if req.Priority == model.PriorityHigh || req.Priority == model.PriorityCritical {
			summary.HighPriority++
		}
	}
	if summary.TotalRequirements > 0 {
		summary.CompletionPercentage = float64(summary.Completed) / float64(summary.TotalRequirements) * 100
	}
	return summary, nil
}

func (s *ProjectService) ListUpdates(ctx context.Context, projectID uint) ([]model.ProjectUpdate, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.updates.List(ctx, repository.UpdateFilter{ProjectID: &projectID})
}

func (s *ProjectService) LatestUpdate(ctx context.Context, projectID uint) (*model.ProjectUpdate, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.updates.LatestByProject(ctx, projectID)
}

// NextSteps rolls up the latest update carrying next steps with the top
// pending requirements and in-progress tasks.
func (s *ProjectService) NextSteps(ctx context.Context, projectID uint) (*model.NextStepsRollup, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	latest, err := s.updates.LatestWithNextSteps(ctx, projectID)
	if err != nil {
		return nil, err
	}
	pending, err := s.requirements.ListPendingByProject(ctx, projectID, 5)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.tasks.ListInProgressByProject(ctx, projectID, 5)
	if err != nil {
		return nil, err
	}

	rollup := &model.NextStepsRollup{
		PendingRequirements: pending,
		InProgressTasks:     inProgress,
	}
	if latest != nil {
		rollup.LatestNextSteps = latest.NextSteps
		createdAt := latest.CreatedAt
		rollup.LatestUpdateDate = &createdAt
	}
	return rollup, nil
}

// StatusOverview is a point-in-time rollup: latest reported progress,
// requirement and task completion percentages, and the merged blockers list
// (latest update's blockers plus every blocked task carrying blocker text).
func (s *ProjectService) StatusOverview(ctx context.Context, projectID uint) (*model.StatusOverview, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	latest, err := s.updates.LatestByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	requirements, err := s.requirements.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	overview := &model.StatusOverview{CurrentBlockers: []model.Blocker{}}

	reqCompleted := 0
	for _, req := range requirements {
		if req.Status == model.RequirementStatusCompleted {
			reqCompleted++
		}
	}
	if len(requirements) > 0 {
		overview.RequirementsCompletion = float64(reqCompleted) / float64(len(requirements)) * 100
	}

	taskCompleted := 0
	for _, task := range tasks {
		if task.Status == model.TaskStatusCompleted {
			taskCompleted++
		}
	}
	if len(tasks) > 0 {
		overview.TasksCompletion = float64(taskCompleted) / float64(len(tasks)) * 100
	}

	if latest != nil {
		overview.LatestProgress = latest.ProgressPercentage
		overview.NextSteps = latest.NextSteps
		overview.EstimatedCompletion = latest.EstimatedCompletion
		if latest.Blockers != "" {
			overview.CurrentBlockers = append(overview.CurrentBlockers, model.Blocker{
				Source:      "project_update",
				Description: latest.Blockers,
				Date:        latest.CreatedAt,
			})
		}
	}

	for _, task := range tasks {
		if task.Status == model.TaskStatusBlocked && task.Blockers != "" {
			overview.CurrentBlockers = append(overview.CurrentBlockers, model.Blocker{
				Source:      "task",
				TaskTitle:   task.Title,
				Description: task.Blockers,
				Date:        task.UpdatedAt,
			})
		}
	}

	return overview, nil
}
