package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
)

// ProductDTO is the API representation of a catalog product.
type ProductDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Barcode   *string   `json:"barcode"`
	Category  *string   `json:"category"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateProductRequest is the body accepted by POST /api/products.
type CreateProductRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Barcode  *string `json:"barcode,omitempty" validate:"omitempty,max=64"`
	Category *string `json:"category,omitempty" validate:"omitempty,max=80"`
	ImageURL *string `json:"imageUrl,omitempty" validate:"omitempty,max=2048"`
}

// FromModel maps a product row to its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:        p.ID,
		Name:      p.Name,
		Barcode:   p.Barcode,
		Category:  p.Category,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (r CreateProductRequest) toModel() *models.Product {
	return &models.Product{
		Name:     strings.TrimSpace(r.Name),
		Barcode:  optional(r.Barcode),
		Category: optional(r.Category),
		ImageURL: optional(r.ImageURL),
	}
}

// optional trims the value and maps blank strings to NULL.
func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
