package supermarkets

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

// SupermarketDTO is the API representation of a supermarket. DistanceKm is
// only set on listings requested with an origin.
type SupermarketDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	Latitude   *float64  `json:"latitude"`
	Longitude  *float64  `json:"longitude"`
	DistanceKm *float64  `json:"distanceKm,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Coordinates implements geo.Located.
func (s SupermarketDTO) Coordinates() (geo.Point, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *s.Latitude, Lng: *s.Longitude}, true
}

// CreateSupermarketRequest is the body accepted by POST /api/supermarkets.
type CreateSupermarketRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,max=300"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// ListInput carries the optional origin for nearest-first ordering.
type ListInput struct {
	Origin *geo.Point
}

func FromModel(s *models.Supermarket) *SupermarketDTO {
	if s == nil {
		return nil
	}
	return &SupermarketDTO{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		CreatedAt: s.CreatedAt,
	}
}

func (r CreateSupermarketRequest) toModel() *models.Supermarket {
	var address *string
	if r.Address != nil {
		if trimmed := strings.TrimSpace(*r.Address); trimmed != "" {
			address = &trimmed
		}
	}
	return &models.Supermarket{
		Name:      strings.TrimSpace(r.Name),
		Address:   address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}
