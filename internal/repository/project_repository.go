package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

func (r *ProjectRepository) List(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var projects []model.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) ListByClient(ctx context.Context, clientID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) Save(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Project{}, id).Error
}

// CountByClient returns per-client project counts for the client list view.
func (r *ProjectRepository) CountByClient(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		ClientID uint
		N        int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Select("client_id, COUNT(*) AS n").
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ClientID] = row.N
	}
	return counts, nil
}
