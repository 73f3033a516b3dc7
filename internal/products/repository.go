package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/repo"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts the product. Duplicate barcodes surface as a unique violation.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a product with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products ordered by name, applying the filters and limit.
func (r *Repository) List(ctx context.Context, filters ListFilters, limit int) ([]models.Product, error) {
	query := r.DB(ctx).Model(&models.Product{})
	if term := strings.TrimSpace(filters.Search); term != "" {
		query = query.Where(`lower(name) LIKE ? ESCAPE '\'`, repo.ContainsPattern(term))
	}
	if category := strings.TrimSpace(filters.Category); category != "" {
		query = query.Where("lower(category) = ?", strings.ToLower(category))
	}
	if barcode := strings.TrimSpace(filters.Barcode); barcode != "" {
		query = query.Where("barcode = ?", barcode)
	}

	var rows []models.Product
	if err := query.Order("name ASC").Order("id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
