package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type CommunicationFilter struct {
	ClientID  *uint
	ProjectID *uint
}

type CommunicationRepository struct {
	db *gorm.DB
}

func NewCommunicationRepository(db *gorm.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

func (r *CommunicationRepository) WithTx(tx *gorm.DB) *CommunicationRepository {
	return &CommunicationRepository{db: tx}
}

func (r *CommunicationRepository) List(ctx context.Context, filter CommunicationFilter) ([]model.Communication, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}

	var communications []model.Communication
	if err := query.Find(&communications).Error; err != nil {
		return nil, err
	}
	return communications, nil
}

func (r *CommunicationRepository) Create(ctx context.Context, communication *model.Communication) error {
	return r.db.WithContext(ctx).Create(communication).Error
}

func (r *CommunicationRepository) DeleteByClient(ctx context.Context, clientID uint) error {
	return r.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&model.Communication{}).Error
}

func (r *CommunicationRepository) DeleteByProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.Communication{}).Error
}
