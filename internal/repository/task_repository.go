package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

// TaskFilter composes optional equality filters with AND; nil means match all.
type TaskFilter struct {
	Status         *model.TaskStatus
	AssignedUserID *uint
	ProjectID      *uint
	Priority       *model.Priority
}

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{db: tx}
}

func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Order("due_date ASC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("assigned_user_id = ?", *filter.AssignedUserID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}

	var tasks []model.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListInProgressByProject(ctx context.Context, projectID uint, limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, model.TaskStatusInProgress).
		Order("due_date ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Get(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("TimeLogs").First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Task{}, id).Error
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Task{}).Error
}

func (r *TaskRepository) ListTimeLogs(ctx context.Context, taskID uint) ([]model.TaskTimeLog, error) {
	var logs []model.TaskTimeLog
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("work_date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *TaskRepository) CreateTimeLog(ctx context.Context, log *model.TaskTimeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// SumLoggedHours re-sums all time log hours for the task from source rows.
func (r *TaskRepository) SumLoggedHours(ctx context.Context, taskID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(hours_worked), 0) FROM task_time_logs WHERE task_id = ?
	`, taskID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TaskRepository) DeleteTimeLogsByTask(ctx context.Context, taskID uint) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.TaskTimeLog{}).Error
}

func (r *TaskRepository) DeleteTimeLogsByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM task_time_logs
		WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)
	`, projectID).Error
}
