package prices

import (
	"context"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/repo"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository persists price entries. Entries are append-only.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, entry *models.PriceEntry) error {
	return r.DB(ctx).Create(entry).Error
}

// FindByID loads one entry with its associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PriceEntry, error) {
	var entry models.PriceEntry
	if err := r.withAssociations(ctx).First(&entry, "price_entries.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListQuery describes one keyset page.
type ListQuery struct {
	ProductID     *uuid.UUID
	SupermarketID *uuid.UUID
	After         *pagination.Cursor
	Limit         int
}

// List returns entries newest first (date desc, id desc).
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.PriceEntry, error) {
	query := r.withAssociations(ctx)
	if q.ProductID != nil {
		query = query.Where("price_entries.product_id = ?", *q.ProductID)
	}
	if q.SupermarketID != nil {
		query = query.Where("price_entries.supermarket_id = ?", *q.SupermarketID)
	}
	if q.After != nil {
		query = query.Where(
			"(price_entries.date < ?) OR (price_entries.date = ? AND price_entries.id < ?)",
			q.After.At, q.After.At, q.After.ID,
		)
	}

	var rows []models.PriceEntry
	err := query.
		Order("price_entries.date DESC").
		Order("price_entries.id DESC").
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) withAssociations(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Model(&models.PriceEntry{}).
		Preload("Product").
		Preload("Supermarket").
		Preload("User")
}
