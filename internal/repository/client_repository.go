package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *ClientRepository) WithTx(tx *gorm.DB) *ClientRepository {
	return &ClientRepository{db: tx}
}

func (r *ClientRepository) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) Get(ctx context.Context, id uint) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *ClientRepository) Save(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *ClientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Client{}, id).Error
}
