package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type UpdateFilter struct {
	ProjectID  *uint
	UpdateType *model.UpdateType
}

type UpdateRepository struct {
	db *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) *UpdateRepository {
	return &UpdateRepository{db: db}
}

func (r *UpdateRepository) WithTx(tx *gorm.DB) *UpdateRepository {
	return &UpdateRepository{db: tx}
}

func (r *UpdateRepository) List(ctx context.Context, filter UpdateFilter) ([]model.ProjectUpdate, error) {
	query := r.db.WithContext(ctx).Preload("Attachments").Order("created_at DESC")
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.UpdateType != nil {
		query = query.Where("update_type = ?", *filter.UpdateType)
	}

	var updates []model.ProjectUpdate
	if err := query.Find(&updates).Error; err != nil {
		return nil, err
	}
	return updates, nil
}

func (r *UpdateRepository) Get(ctx context.Context, id uint) (*model.ProjectUpdate, error) {
	var update model.ProjectUpdate
	if err := r.db.WithContext(ctx).Preload("Attachments").First(&update, id).Error; err != nil {
		return nil, err
	}
	return &update, nil
}

func (r *UpdateRepository) Create(ctx context.Context, update *model.ProjectUpdate) error {
	return r.db.WithContext(ctx).Create(update).Error
}

func (r *UpdateRepository) Save(ctx context.Context, update *model.ProjectUpdate) error {
	return r.db.WithContext(ctx).Save(update).Error
}

func (r *UpdateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ProjectUpdate{}, id).Error
}

// LatestByProject returns nil without error when the project has no updates.
func (r *UpdateRepository) LatestByProject(ctx context.Context, projectID uint) (*model.ProjectUpdate, error) {
	var update model.ProjectUpdate
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&update).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// LatestWithNextSteps returns the most recent update carrying next steps,
// or nil when there is none.
func (r *UpdateRepository) LatestWithNextSteps(ctx context.Context, projectID uint) (*model.ProjectUpdate, error) {
	var update model.ProjectUpdate
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND next_steps <> ''", projectID).
		Order("created_at DESC").
		First(&update).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &update, nil
}

func (r *UpdateRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectUpdate{}).Error
}

func (r *UpdateRepository) DeleteAttachmentsByUpdate(ctx context.Context, updateID uint) error {
	return r.db.WithContext(ctx).Where("update_id = ?", updateID).Delete(&model.ProjectUpdateAttachment{}).Error
}

func (r *UpdateRepository) DeleteAttachmentsByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM project_update_attachments
		WHERE update_id IN (SELECT id FROM project_updates WHERE project_id = ?)
	`, projectID).Error
}
