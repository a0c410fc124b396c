package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type RequirementFilter struct {
	ProjectID      *uint
	Status         *model.RequirementStatus
	Priority       *model.Priority
	AssignedUserID *uint
}

type RequirementRepository struct {
	db *gorm.DB
}

func NewRequirementRepository(db *gorm.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

func (r *RequirementRepository) WithTx(tx *gorm.DB) *RequirementRepository {
	return &RequirementRepository{db: tx}
}

// priorityRank orders critical > high > medium > low in SQL.
const priorityRank = `CASE priority
	WHEN 'critical' THEN 4
	WHEN 'high' THEN 3
	WHEN 'medium' THEN 2
	ELSE 1
END`

func (r *RequirementRepository) List(ctx context.Context, filter RequirementFilter) ([]model.Requirement, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("assigned_user_id = ?", *filter.AssignedUserID)
	}

	var requirements []model.Requirement
	if err := query.Find(&requirements).Error; err != nil {
		return nil, err
	}
	return requirements, nil
}

func (r *RequirementRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Requirement, error) {
	var requirements []model.Requirement
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(priorityRank + " DESC, created_at DESC").
		Find(&requirements).Error
	if err != nil {
		return nil, err
	}
	return requirements, nil
}

func (r *RequirementRepository) ListPendingByProject(ctx context.Context, projectID uint, limit int) ([]model.Requirement, error) {
	var requirements []model.Requirement
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND status = ?", projectID, model.RequirementStatusPending).
		Order(priorityRank + " DESC").
		Limit(limit).
		Find(&requirements).Error
	if err != nil {
		return nil, err
	}
	return requirements, nil
}

func (r *RequirementRepository) Get(ctx context.Context, id uint) (*model.Requirement, error) {
	var requirement model.Requirement
	if err := r.db.WithContext(ctx).First(&requirement, id).Error; err != nil {
		return nil, err
	}
	return &requirement, nil
}

func (r *RequirementRepository) Create(ctx context.Context, requirement *model.Requirement) error {
	return r.db.WithContext(ctx).Create(requirement).Error
}

func (r *RequirementRepository) Save(ctx context.Context, requirement *model.Requirement) error {
	return r.db.WithContext(ctx).Save(requirement).Error
}

func (r *RequirementRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Requirement{}, id).Error
}

func (r *RequirementRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Requirement{}).Error
}
