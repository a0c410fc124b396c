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

type RequirementService struct {
	db           *gorm.DB
	requirements *repository.RequirementRepository
	projects     *repository.ProjectRepository
}

func NewRequirementService(db *gorm.DB) *RequirementService {
	return &RequirementService{
		db:           db,
		requirements: repository.NewRequirementRepository(db),
		projects:     repository.NewProjectRepository(db),
	}
}

type CreateRequirementInput struct {
	ProjectID          uint
	Title              string
	Description        string
	Priority           model.Priority
	Status             model.RequirementStatus
	Category           string
	AcceptanceCriteria string
	EstimatedHours     int
	AssignedUserID     *uint
	DueDate            *time.Time
	CreatedBy          uint
}

type UpdateRequirementInput struct {
	Title              *string
	Description        *string
	Priority           *model.Priority
	Status             *model.RequirementStatus
	Category           *string
	AcceptanceCriteria *string
	EstimatedHours     *int
	AssignedUserID     *uint
	DueDate            *time.Time
}

func (s *RequirementService) List(ctx context.Context, filter repository.RequirementFilter) ([]model.Requirement, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown requirement status %q", ErrInvalidInput, *filter.Status)
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *filter.Priority)
	}
	return s.requirements.List(ctx, filter)
}

func (s *RequirementService) Get(ctx context.Context, id uint) (*model.Requirement, error) {
	requirement, err := s.requirements.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: requirement %d", ErrNotFound, id)
		}
		return nil, err
	}
	return requirement, nil
}

func (s *RequirementService) Create(ctx context.Context, input CreateRequirementInput) (*model.Requirement, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = model.RequirementStatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown requirement status %q", ErrInvalidInput, status)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, priority)
	}

	if _, err := s.projects.Get(ctx, input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: project %d", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}

	requirement := &model.Requirement{
		ProjectID:          input.ProjectID,
		Title:              input.Title,
		Description:        input.Description,
		Priority:           priority,
		Status:             status,
		Category:           input.Category,
		AcceptanceCriteria: input.AcceptanceCriteria,
		EstimatedHours:     input.EstimatedHours,
		AssignedUserID:     input.AssignedUserID,
		DueDate:            input.DueDate,
		CreatedBy:          input.CreatedBy,
	}
	if status == model.RequirementStatusCompleted {
		now := time.Now().UTC()
		requirement.CompletedAt = &now
	}

	if err := s.requirements.Create(ctx, requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

// Update replaces the supplied fields. Whenever the request carries a status,
// the completion stamp follows it: entering completed sets it, any
// non-completed status clears it, even if it was already null.
func (s *RequirementService) Update(ctx context.Context, id uint, input UpdateRequirementInput) (*model.Requirement, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown requirement status %q", ErrInvalidInput, *input.Status)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *input.Priority)
	}

	var updated *model.Requirement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requirements := s.requirements.WithTx(tx)

		requirement, err := requirements.Get(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: requirement %d", ErrNotFound, id)
			}
			return err
		}

		oldStatus := requirement.Status

		if input.Title != nil {
			requirement.Title = *input.Title
		}
		if input.Description != nil {
			requirement.Description = *input.Description
		}
		if input.Priority != nil {
			requirement.Priority = *input.Priority
		}
		if input.Status != nil {
			requirement.Status = *input.Status
		}
		if input.Category != nil {
			requirement.Category = *input.Category
		}
		if input.AcceptanceCriteria != nil {
			requirement.AcceptanceCriteria = *input.AcceptanceCriteria
		}
		if input.EstimatedHours != nil {
			requirement.EstimatedHours = *input.EstimatedHours
		}
		if input.AssignedUserID != nil {
			requirement.AssignedUserID = input.AssignedUserID
		}
		if input.DueDate != nil {
			requirement.DueDate = input.DueDate
		}

		if input.Status != nil {
			switch {
			case requirement.Status == model.RequirementStatusCompleted && oldStatus != model.RequirementStatusCompleted:
				now := time.Now().UTC()
				requirement.CompletedAt = &now
			case requirement.Status != model.RequirementStatusCompleted:
				requirement.CompletedAt = nil
			}
		}

		if err := requirements.Save(ctx, requirement); err != nil {
			return err
		}
		updated = requirement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *RequirementService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.requirements.Delete(ctx, id)
}
