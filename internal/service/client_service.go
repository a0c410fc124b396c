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

type ClientService struct {
	db       *gorm.DB
	clients  *repository.ClientRepository
	projects *repository.ProjectRepository
	quotes   *repository.QuoteRepository
	comms    *repository.CommunicationRepository
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{
		db:       db,
		clients:  repository.NewClientRepository(db),
		projects: repository.NewProjectRepository(db),
		quotes:   repository.NewQuoteRepository(db),
		comms:    repository.NewCommunicationRepository(db),
	}
}

type ClientSummary struct {
	model.Client
	ProjectCount int64 `json:"project_count"`
	QuoteCount   int64 `json:"quote_count"`
}

type ClientDetail struct {
	model.Client
	Projects []model.Project `json:"projects"`
	Quotes   []model.Quote   `json:"quotes"`
}

type CreateClientInput struct {
	CompanyName string `json:"company_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Industry    string `json:"industry"`
	Notes       string `json:"notes"`
}

type UpdateClientInput struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Industry    *string `json:"industry"`
	Notes       *string `json:"notes"`
}

func (s *ClientService) List(ctx context.Context) ([]ClientSummary, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}

	projectCounts, err := s.projects.CountByClient(ctx)
	if err != nil {
		return nil, err
	}
	quoteCounts, err := s.quoteCountsByClient(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]ClientSummary, 0, len(clients))
	for _, client := range clients {
		summaries = append(summaries, ClientSummary{
			Client:       client,
			ProjectCount: projectCounts[client.ID],
			QuoteCount:   quoteCounts[client.ID],
		})
	}
	return summaries, nil
}

func (s *ClientService) Get(ctx context.Context, id uint) (*ClientDetail, error) {
	client, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		return nil, err
	}

	projects, err := s.projects.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}
	quotes, err := s.quotes.ListByClient(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ClientDetail{Client: *client, Projects: projects, Quotes: quotes}, nil
}

func (s *ClientService) Create(ctx context.Context, input CreateClientInput) (*model.Client, error) {
	if strings.TrimSpace(input.CompanyName) == "" {
		return nil, fmt.Errorf("%w: company_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.ContactName) == "" {
		return nil, fmt.Errorf("%w: contact_name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	client := &model.Client{
		CompanyName: input.CompanyName,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Industry:    input.Industry,
		Notes:       input.Notes,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id uint, input UpdateClientInput) (*model.Client, error) {
	client, err := s.clients.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		return nil, err
	}

	if input.CompanyName != nil {
		client.CompanyName = *input.CompanyName
	}
	if input.ContactName != nil {
		client.ContactName = *input.ContactName
	}
	if input.Email != nil {
		client.Email = *input.Email
	}
	if input.Phone != nil {
		client.Phone = *input.Phone
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.Industry != nil {
		client.Industry = *input.Industry
	}
	if input.Notes != nil {
		client.Notes = *input.Notes
	}

	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete removes the client and everything it owns: projects (with their
// tasks, requirements, updates and quotes), client-level quotes, and
// communications.
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	if _, err := s.clients.Get(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: client %d", ErrNotFound, id)
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projects, err := repository.NewProjectRepository(tx).ListByClient(ctx, id)
		if err != nil {
			return err
		}
		for _, project := range projects {
			if err := deleteProjectTree(ctx, tx, project.ID); err != nil {
				return err
			}
		}

		quotes, err := repository.NewQuoteRepository(tx).ListByClient(ctx, id)
		if err != nil {
			return err
		}
		for _, quote := range quotes {
			if err := deleteQuoteTree(ctx, tx, quote.ID); err != nil {
				return err
			}
		}

		if err := repository.NewCommunicationRepository(tx).DeleteByClient(ctx, id); err != nil {
			return err
		}

		return repository.NewClientRepository(tx).Delete(ctx, id)
	})
}

func (s *ClientService) quoteCountsByClient(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		ClientID uint
		N        int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Quote{}).
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
