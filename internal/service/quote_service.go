package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
	"github.com/emert/crm-service/internal/repository"
)

// PDFGenerator renders a quote document for download.
type PDFGenerator interface {
	Generate(quote model.Quote, client model.Client) ([]byte, error)
}

type QuoteService struct {
	db       *gorm.DB
	quotes   *repository.QuoteRepository
	clients  *repository.ClientRepository
	projects *repository.ProjectRepository
	pdf      PDFGenerator
}

func NewQuoteService(db *gorm.DB, pdf PDFGenerator) *QuoteService {
	return &QuoteService{
		db:       db,
		quotes:   repository.NewQuoteRepository(db),
		clients:  repository.NewClientRepository(db),
		projects: repository.NewProjectRepository(db),
		pdf:      pdf,
	}
}

type QuoteItemInput struct {
	ServiceName string
	Description string
	Quantity    int
	UnitPrice   float64
}

type CreateQuoteInput struct {
	ClientID    uint
	ProjectID   *uint
	Title       string
	Description string
	Status      model.QuoteStatus
	ValidUntil  *time.Time
	Items       []QuoteItemInput
}

type UpdateQuoteInput struct {
	Title       *string
	Description *string
	Status      *model.QuoteStatus
	ValidUntil  *time.Time
}

type UpdateQuoteItemInput struct {
	ServiceName *string
	Description *string
	Quantity    *int
	UnitPrice   *float64
}

type QuoteDocument struct {
	FileName string
	Content  []byte
}

func (s *QuoteService) List(ctx context.Context, filter repository.QuoteFilter) ([]model.Quote, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown quote status %q", ErrInvalidInput, *filter.Status)
	}
	return s.quotes.List(ctx, filter)
}

func (s *QuoteService) Get(ctx context.Context, id uint) (*model.Quote, error) {
	quote, err := s.quotes.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quote %d", ErrNotFound, id)
		}
		return nil, err
	}
	return quote, nil
}

func (s *QuoteService) Create(ctx context.Context, input CreateQuoteInput) (*model.Quote, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	status := input.Status
	if status == "" {
		status = model.QuoteStatusDraft
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown quote status %q", ErrInvalidInput, status)
	}
	for _, item := range input.Items {
		if err := validateItemInput(item); err != nil {
			return nil, err
		}
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

	var created *model.Quote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotes := s.quotes.WithTx(tx)

		quote := &model.Quote{
			ClientID:    input.ClientID,
			ProjectID:   input.ProjectID,
			QuoteNumber: newQuoteNumber(),
			Title:       input.Title,
			Description: input.Description,
			Status:      status,
			ValidUntil:  input.ValidUntil,
		}
		if err := quotes.Create(ctx, quote); err != nil {
			return err
		}

		for _, itemInput := range input.Items {
			item := buildQuoteItem(quote.ID, itemInput)
			if err := quotes.CreateItem(ctx, &item); err != nil {
				return err
			}
		}

		if err := s.recomputeTotal(ctx, quotes, quote); err != nil {
			return err
		}
		created = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *QuoteService) Update(ctx context.Context, id uint, input UpdateQuoteInput) (*model.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown quote status %q", ErrInvalidInput, *input.Status)
	}

	if input.Title != nil {
		quote.Title = *input.Title
	}
	if input.Description != nil {
		quote.Description = *input.Description
	}
	if input.Status != nil {
		quote.Status = *input.Status
	}
	if input.ValidUntil != nil {
		quote.ValidUntil = input.ValidUntil
	}

	quote.Items = nil
	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *QuoteService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteQuoteTree(ctx, tx, id)
	})
}

func (s *QuoteService) AddItem(ctx context.Context, quoteID uint, input QuoteItemInput) (*model.QuoteItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	var created *model.QuoteItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotes := s.quotes.WithTx(tx)

		quote, err := quotes.Get(ctx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quote %d", ErrNotFound, quoteID)
			}
			return err
		}

		item := buildQuoteItem(quote.ID, input)
		if err := quotes.CreateItem(ctx, &item); err != nil {
			return err
		}
		if err := s.recomputeTotal(ctx, quotes, quote); err != nil {
			return err
		}
		created = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *QuoteService) UpdateItem(ctx context.Context, quoteID, itemID uint, input UpdateQuoteItemInput) (*model.QuoteItem, error) {
	if input.Quantity != nil && *input.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if input.UnitPrice != nil && *input.UnitPrice < 0 {
		return nil, fmt.Errorf("%w: unit_price must be non-negative", ErrInvalidInput)
	}

	var updated *model.QuoteItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotes := s.quotes.WithTx(tx)

		quote, err := quotes.Get(ctx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quote %d", ErrNotFound, quoteID)
			}
			return err
		}
		item, err := quotes.GetItem(ctx, quoteID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quote item %d", ErrNotFound, itemID)
			}
			return err
		}

		if input.ServiceName != nil {
			item.ServiceName = *input.ServiceName
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.UnitPrice != nil {
			item.UnitPrice = *input.UnitPrice
		}
		item.TotalPrice = float64(item.Quantity) * item.UnitPrice

		if err := quotes.SaveItem(ctx, item); err != nil {
			return err
		}
		if err := s.recomputeTotal(ctx, quotes, quote); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *QuoteService) DeleteItem(ctx context.Context, quoteID, itemID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quotes := s.quotes.WithTx(tx)

		quote, err := quotes.Get(ctx, quoteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quote %d", ErrNotFound, quoteID)
			}
			return err
		}
		if _, err := quotes.GetItem(ctx, quoteID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: quote item %d", ErrNotFound, itemID)
			}
			return err
		}

		if err := quotes.DeleteItem(ctx, itemID); err != nil {
			return err
		}
		return s.recomputeTotal(ctx, quotes, quote)
	})
}

// Send marks the quote as sent. It deliberately does not gate on the current
// status; resending an accepted quote is allowed.
func (s *QuoteService) Send(ctx context.Context, id uint) (*model.Quote, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	quote.Status = model.QuoteStatusSent
	quote.Items = nil
	if err := s.quotes.Save(ctx, quote); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *QuoteService) RenderPDF(ctx context.Context, id uint) (*QuoteDocument, error) {
	quote, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.Get(ctx, quote.ClientID)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*quote, *client)
	if err != nil {
		return nil, err
	}
	return &QuoteDocument{
		FileName: fmt.Sprintf("%s.pdf", quote.QuoteNumber),
		Content:  content,
	}, nil
}

// recomputeTotal re-sums the quote's current items and persists the result.
func (s *QuoteService) recomputeTotal(ctx context.Context, quotes *repository.QuoteRepository, quote *model.Quote) error {
	total, err := quotes.SumItemTotals(ctx, quote.ID)
	if err != nil {
		return err
	}
	quote.TotalAmount = total
	quote.Items = nil
	return quotes.Save(ctx, quote)
}

func validateItemInput(input QuoteItemInput) error {
	if strings.TrimSpace(input.ServiceName) == "" {
		return fmt.Errorf("%w: service_name is required", ErrInvalidInput)
	}
	if input.Quantity < 0 {
		return fmt.Errorf("%w: quantity must be non-negative", ErrInvalidInput)
	}
	if input.UnitPrice < 0 {
		return fmt.Errorf("%w: unit_price must be non-negative", ErrInvalidInput)
	}
	return nil
}

func buildQuoteItem(quoteID uint, input QuoteItemInput) model.QuoteItem {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return model.QuoteItem{
		QuoteID:     quoteID,
		ServiceName: input.ServiceName,
		Description: input.Description,
		Quantity:    quantity,
		UnitPrice:   input.UnitPrice,
		TotalPrice:  float64(quantity) * input.UnitPrice,
	}
}

func newQuoteNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("Q-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
