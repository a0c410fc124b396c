package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
)

// ExcelGenerator renders the dashboard metrics workbook.
type ExcelGenerator interface {
	Generate(metrics model.DashboardMetrics, pipeline model.PipelineReport, revenue model.RevenueReport) ([]byte, error)
}

type AnalyticsService struct {
	analytics *repository.AnalyticsRepository
	excel     ExcelGenerator
}

type DashboardExport struct {
	FileName string
	Content  []byte
}

func NewAnalyticsService(db *gorm.DB, excel ExcelGenerator) *AnalyticsService {
	return &AnalyticsService{
		analytics: repository.NewAnalyticsRepository(db),
		excel:     excel,
	}
}

// Dashboard recomputes every metric from source rows on each call.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*model.DashboardMetrics, error) {
	metrics := &model.DashboardMetrics{}

	var err error
	if metrics.TotalClients, err = s.analytics.CountClients(ctx); err != nil {
		return nil, err
	}
	if metrics.TotalProjects, err = s.analytics.CountProjects(ctx, nil); err != nil {
		return nil, err
	}
	active := model.ProjectStatusActive
	if metrics.ActiveProjects, err = s.analytics.CountProjects(ctx, &active); err != nil {
		return nil, err
	}
	if metrics.TotalQuotes, err = s.analytics.CountQuotes(ctx, nil); err != nil {
		return nil, err
	}
	sent := model.QuoteStatusSent
	if metrics.PendingQuotes, err = s.analytics.CountQuotes(ctx, &sent); err != nil {
		return nil, err
	}
	if metrics.TotalTasks, err = s.analytics.CountTasks(ctx, nil); err != nil {
		return nil, err
	}
	completed := model.TaskStatusCompleted
	if metrics.CompletedTasks, err = s.analytics.CountTasks(ctx, &completed); err != nil {
		return nil, err
	}
	inProgress := model.TaskStatusInProgress
	if metrics.InProgressTasks, err = s.analytics.CountTasks(ctx, &inProgress); err != nil {
		return nil, err
	}
	if metrics.TotalRevenue, err = s.analytics.SumAcceptedQuoteTotals(ctx); err != nil {
		return nil, err
	}

	if metrics.TotalTasks > 0 {
		metrics.TaskCompletionRate = float64(metrics.CompletedTasks) / float64(metrics.TotalTasks) * 100
	}
	return metrics, nil
}

func (s *AnalyticsService) Revenue(ctx context.Context) (*model.RevenueReport, error) {
	revenue, err := s.analytics.RevenueByService(ctx)
	if err != nil {
		return nil, err
	}
	return &model.RevenueReport{RevenueByService: revenue}, nil
}

func (s *AnalyticsService) Pipeline(ctx context.Context) (*model.PipelineReport, error) {
	projectDistribution, err := s.analytics.ProjectStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	quoteDistribution, err := s.analytics.QuoteStatusDistribution(ctx)
	if err != nil {
		return nil, err
	}
	return &model.PipelineReport{
		ProjectStatusDistribution: projectDistribution,
		QuoteStatusDistribution:   quoteDistribution,
	}, nil
}

func (s *AnalyticsService) Export(ctx context.Context) (*DashboardExport, error) {
	metrics, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	pipeline, err := s.Pipeline(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.Revenue(ctx)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*metrics, *pipeline, *revenue)
	if err != nil {
		return nil, err
	}
	return &DashboardExport{
		FileName: fmt.Sprintf("dashboard-%s.xlsx", time.Now().UTC().Format("20060102")),
		Content:  content,
	}, nil
}
