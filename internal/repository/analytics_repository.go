package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

// AnalyticsRepository serves the read-side aggregates. Every query recomputes
// from source rows at request time; nothing is cached.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountProjects(ctx context.Context, status *model.ProjectStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountTasks(ctx context.Context, status *model.TaskStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

func (r *AnalyticsRepository) CountQuotes(ctx context.Context, status *model.QuoteStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Quote{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var n int64
	err := query.Count(&n).Error
	return n, err
}

// SumAcceptedQuoteTotals is the revenue figure: accepted quotes only.
func (r *AnalyticsRepository) SumAcceptedQuoteTotals(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) FROM quotes WHERE status = ?
	`, model.QuoteStatusAccepted).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// RevenueByService groups accepted-quote totals by the owning project's
// service type. Quotes without a project, or whose project has no service
// type, fall under "Other".
func (r *AnalyticsRepository) RevenueByService(ctx context.Context) (map[string]float64, error) {
	var rows []struct {
		ServiceType string
		Revenue     float64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(NULLIF(p.service_type, ''), 'Other') AS service_type,
			SUM(q.total_amount) AS revenue
		FROM quotes q
		LEFT JOIN projects p ON p.id = q.project_id
		WHERE q.status = ?
		GROUP BY COALESCE(NULLIF(p.service_type, ''), 'Other')
	`, model.QuoteStatusAccepted).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	revenue := make(map[string]float64, len(rows))
	for _, row := range rows {
		revenue[row.ServiceType] = row.Revenue
	}
	return revenue, nil
}

func (r *AnalyticsRepository) ProjectStatusDistribution(ctx context.Context) (map[string]int64, error) {
	return r.statusDistribution(ctx, "projects")
}

func (r *AnalyticsRepository) QuoteStatusDistribution(ctx context.Context) (map[string]int64, error) {
	return r.statusDistribution(ctx, "quotes")
}

func (r *AnalyticsRepository) statusDistribution(ctx context.Context, table string) (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.db.WithContext(ctx).
		Table(table).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int64, len(rows))
	for _, row := range rows {
		distribution[row.Status] = row.N
	}
	return distribution, nil
}
