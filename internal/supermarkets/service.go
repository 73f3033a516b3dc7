package supermarkets

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

// Service exposes supermarket operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]SupermarketDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupermarketDTO, error)
	Create(ctx context.Context, req CreateSupermarketRequest) (*SupermarketDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "supermarket repository required")
	}
	return &service{repo: repo}, nil
}

// List returns supermarkets by name, or nearest-first with distanceKm when
// an origin is given. Supermarkets without coordinates go last.
func (s *service) List(ctx context.Context, input ListInput) ([]SupermarketDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supermarkets")
	}
	out := make([]SupermarketDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	if input.Origin == nil {
		return out, nil
	}
	if !input.Origin.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lat/lng out of range")
	}

	ranked := geo.SortByDistance(*input.Origin, out)
	sorted := make([]SupermarketDTO, 0, len(ranked))
	for _, r := range ranked {
		item := r.Item
		item.DistanceKm = r.DistanceKm
		sorted = append(sorted, item)
	}
	return sorted, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupermarketDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supermarket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load supermarket")
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, req CreateSupermarketRequest) (*SupermarketDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be provided together")
	}
	if req.Latitude != nil && !(geo.Point{Lat: *req.Latitude, Lng: *req.Longitude}).Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coordinates out of range")
	}

	created, err := s.repo.Create(ctx, req.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supermarket")
	}
	return FromModel(created), nil
}
