package supermarkets

import (
	"context"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/repo"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists supermarkets.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, s *models.Supermarket) (*models.Supermarket, error) {
	if err := r.DB(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supermarket, error) {
	var s models.Supermarket
	if err := r.DB(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Exists reports whether a supermarket with the id is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Supermarket{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListAll returns every supermarket ordered by name.
func (r *Repository) ListAll(ctx context.Context) ([]models.Supermarket, error) {
	var rows []models.Supermarket
	if err := r.DB(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
