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

type UpdateService struct {
	db       *gorm.DB
	updates  *repository.UpdateRepository
	projects *repository.ProjectRepository
}

func NewUpdateService(db *gorm.DB) *UpdateService {
	return &UpdateService{
		db:       db,
		updates:  repository.NewUpdateRepository(db),
		projects: repository.NewProjectRepository(db),
	}
}

type CreateUpdateInput struct {
	ProjectID           uint
	Title               string
	Description         string
	UpdateType          model.UpdateType
	StatusBefore        string
	StatusAfter         string
	ProgressPercentage  int
	NextSteps           string
	Blockers            string
	EstimatedCompletion *time.Time
	CreatedBy           uint
}

type UpdateUpdateInput struct {
	Title               *string
	Description         *string
	UpdateType          *model.UpdateType
	StatusBefore        *string
	StatusAfter         *string
	ProgressPercentage  *int
	NextSteps           *string
	Blockers            *string
	EstimatedCompletion *time.Time
}

func (s *UpdateService) List(ctx context.Context, filter repository.UpdateFilter) ([]model.ProjectUpdate, error) {
	if filter.UpdateType != nil && !filter.UpdateType.Valid() {
		return nil, fmt.Errorf("%w: unknown update type %q", ErrInvalidInput, *filter.UpdateType)
	}
	return s.updates.List(ctx, filter)
}

func (s *UpdateService) Get(ctx context.Context, id uint) (*model.ProjectUpdate, error) {
	update, err := s.updates.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project update %d", ErrNotFound, id)
		}
		return nil, err
	}
	return update, nil
}

func (s *UpdateService) Create(ctx context.Context, input CreateUpdateInput) (*model.ProjectUpdate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	updateType := input.UpdateType
	if updateType == "" {
		updateType = model.UpdateTypeProgress
	}
	if !updateType.Valid() {
		return nil, fmt.Errorf("%w: unknown update type %q", ErrInvalidInput, updateType)
	}
	if input.ProgressPercentage < 0 || input.ProgressPercentage > 100 {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0,100]", ErrInvalidInput)
	}

	if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}

	update := &model.ProjectUpdate{
		ProjectID:           input.ProjectID,
		Title:               input.Title,
		Description:         input.Description,
		UpdateType:          updateType,
		StatusBefore:        input.StatusBefore,
		StatusAfter:         input.StatusAfter,
		ProgressPercentage:  input.ProgressPercentage,
		NextSteps:           input.NextSteps,
		Blockers:            input.Blockers,
		EstimatedCompletion: input.EstimatedCompletion,
		CreatedBy:           input.CreatedBy,
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

// Update is plain field replacement; history entries carry no lifecycle.
func (s *UpdateService) Update(ctx context.Context, id uint, input UpdateUpdateInput) (*model.ProjectUpdate, error) {
	update, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.UpdateType != nil && !input.UpdateType.Valid() {
		return nil, fmt.Errorf("%w: unknown update type %q", ErrInvalidInput, *input.UpdateType)
	}
	if input.ProgressPercentage != nil && (*input.ProgressPercentage < 0 || *input.ProgressPercentage > 100) {
		return nil, fmt.Errorf("%w: progress_percentage must be within [0,100]", ErrInvalidInput)
	}

	if input.Title != nil {
		update.Title = *input.Title
	}
	if input.Description != nil {
		update.Description = *input.Description
	}
	if input.UpdateType != nil {
		update.UpdateType = *input.UpdateType
	}
	if input.StatusBefore != nil {
		update.StatusBefore = *input.StatusBefore
	}
	if input.StatusAfter != nil {
		update.StatusAfter = *input.StatusAfter
	}
	if input.ProgressPercentage != nil {
		update.ProgressPercentage = *input.ProgressPercentage
	}
	if input.NextSteps != nil {
		update.NextSteps = *input.NextSteps
	}
	if input.Blockers != nil {
		update.Blockers = *input.Blockers
	}
	if input.EstimatedCompletion != nil {
		update.EstimatedCompletion = input.EstimatedCompletion
	}

	update.Attachments = nil
	if err := s.updates.Save(ctx, update); err != nil {
		return nil, err
	}
	return update, nil
}

func (s *UpdateService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := s.updates.WithTx(tx)
		if err := updates.DeleteAttachmentsByUpdate(ctx, id); err != nil {
			return err
		}
		return updates.Delete(ctx, id)
	})
}
