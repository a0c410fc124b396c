package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emert/crm-service/internal/model"
)

type QuoteFilter struct {
	Status   *model.QuoteStatus
	ClientID *uint
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) WithTx(tx *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: tx}
}

func (r *QuoteRepository) List(ctx context.Context, filter QuoteFilter) ([]model.Quote, error) {
	query := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}

	var quotes []model.Quote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepository) ListByClient(ctx context.Context, clientID uint) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *QuoteRepository) ListIDsByProject(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Quote{}).
		Where("project_id = ?", projectID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *QuoteRepository) Get(ctx context.Context, id uint) (*model.Quote, error) {
	var quote model.Quote
	if err := r.db.WithContext(ctx).Preload("Items").First(&quote, id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Create(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) Save(ctx context.Context, quote *model.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Quote{}, id).Error
}

func (r *QuoteRepository) GetItem(ctx context.Context, quoteID, itemID uint) (*model.QuoteItem, error) {
	var item model.QuoteItem
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *QuoteRepository) CreateItem(ctx context.Context, item *model.QuoteItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuoteRepository) SaveItem(ctx context.Context, item *model.QuoteItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *QuoteRepository) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).Delete(&model.QuoteItem{}, itemID).Error
}

func (r *QuoteRepository) DeleteItemsByQuote(ctx context.Context, quoteID uint) error {
	return r.db.WithContext(ctx).Where("quote_id = ?", quoteID).Delete(&model.QuoteItem{}).Error
}

// SumItemTotals is a full re-sum over the quote's current items, not an
// incremental adjustment, so the stored total can never drift.
func (r *QuoteRepository) SumItemTotals(ctx context.Context, quoteID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_price), 0) FROM quote_items WHERE quote_id = ?
	`, quoteID).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *QuoteRepository) DeleteDocumentsByQuote(ctx context.Context, quoteID uint) error {
	return r.db.WithContext(ctx).Where("quote_id = ?", quoteID).Delete(&model.Document{}).Error
}
