package prices

import (
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/internal/users"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// PriceEntryDTO is a price observation with its product, supermarket and
// author name nested.
type PriceEntryDTO struct {
	ID            uuid.UUID                    `json:"id"`
	Price         float64                      `json:"price"`
	Date          time.Time                    `json:"date"`
	ProductID     uuid.UUID                    `json:"productId"`
	SupermarketID uuid.UUID                    `json:"supermarketId"`
	Product       *products.ProductDTO         `json:"product"`
	Supermarket   *supermarkets.SupermarketDTO `json:"supermarket"`
	User          *users.AuthorDTO             `json:"user"`
	CreatedAt     time.Time                    `json:"createdAt"`
}

// CreatePriceRequest is the body accepted by POST /api/prices.
type CreatePriceRequest struct {
	SupermarketID uuid.UUID       `json:"supermarketId" validate:"required"`
	ProductID     uuid.UUID       `json:"productId" validate:"required"`
	Price         decimal.Decimal `json:"price"`
	Date          *time.Time      `json:"date,omitempty"`
}

// ListInput narrows and pages the price listing.
type ListInput struct {
	ProductID     *uuid.UUID
	SupermarketID *uuid.UUID
	Pagination    pagination.Params
}

// ListResult is one page of price entries.
type ListResult struct {
	Items      []PriceEntryDTO `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

func FromModel(p *models.PriceEntry) PriceEntryDTO {
	return PriceEntryDTO{
		ID:            p.ID,
		Price:         p.Price.InexactFloat64(),
		Date:          p.Date,
		ProductID:     p.ProductID,
		SupermarketID: p.SupermarketID,
		Product:       products.FromModel(p.Product),
		Supermarket:   supermarkets.FromModel(p.Supermarket),
		User:          users.AuthorFromModel(p.User),
		CreatedAt:     p.CreatedAt,
	}
}
