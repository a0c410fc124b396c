package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
)

type CommunicationService struct {
	comms    *repository.CommunicationRepository
	clients  *repository.ClientRepository
	projects *repository.ProjectRepository
}

func NewCommunicationService(db *gorm.DB) *CommunicationService {
	return &CommunicationService{
		comms:    repository.NewCommunicationRepository(db),
		clients:  repository.NewClientRepository(db),
		projects: repository.NewProjectRepository(db),
	}
}

type CreateCommunicationInput struct {
	ClientID  uint
	ProjectID *uint
	UserID    uint
	Type      model.CommunicationType
	Subject   string
	Content   string
}

func (s *CommunicationService) List(ctx context.Context, filter repository.CommunicationFilter) ([]model.Communication, error) {
	return s.comms.List(ctx, filter)
}

func (s *CommunicationService) Create(ctx context.Context, input CreateCommunicationInput) (*model.Communication, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown communication type %q", ErrInvalidInput, input.Type)
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	if _, err := s.clients.Get(ctx, input.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrNotFound, input.ClientID)
		}
		return nil, err
	}
	if input.ProjectID != nil {
		if _, err := s.projects.Get(ctx, *input.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: project %d", ErrNotFound, *input.ProjectID)
			}
			return nil, err
		}
	}

	communication := &model.Communication{
		ClientID:  input.ClientID,
		ProjectID: input.ProjectID,
		UserID:    input.UserID,
		Type:      input.Type,
		Subject:   input.Subject,
		Content:   input.Content,
	}
	if err := s.comms.Create(ctx, communication); err != nil {
		return nil, err
	}
	return communication, nil
}
