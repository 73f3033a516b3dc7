package prices

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
	"github.com/shopspring/decimal"
)

// maxPrice is the largest value numeric(10,2) holds.
var maxPrice = decimal.RequireFromString("99999999.99")

// Service exposes price entry operations.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Create(ctx context.Context, userID uuid.UUID, req CreatePriceRequest) (*PriceEntryDTO, error)
}

type existenceChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type priceRecorder interface {
	PriceRecorded()
}

// ServiceParams bundles the price service dependencies.
type ServiceParams struct {
	Repo         *Repository
	Products     existenceChecker
	Supermarkets existenceChecker
	Limits       pagination.Limits
	Metrics      priceRecorder
	Now          func() time.Time
}

type service struct {
	repo         *Repository
	products     existenceChecker
	supermarkets existenceChecker
	limits       pagination.Limits
	metrics      priceRecorder
	now          func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "price repository required")
	}
	if params.Products == nil || params.Supermarkets == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product and supermarket lookups required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:         params.Repo,
		products:     params.Products,
		supermarkets: params.Supermarkets,
		limits:       params.Limits,
		metrics:      params.Metrics,
		now:          now,
	}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := s.limits.Normalize(input.Pagination.Limit)

	rows, err := s.repo.List(ctx, ListQuery{
		ProductID:     input.ProductID,
		SupermarketID: input.SupermarketID,
		After:         cursor,
		Limit:         s.limits.WithBuffer(input.Pagination.Limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list prices")
	}

	result := &ListResult{Items: make([]PriceEntryDTO, 0, min(len(rows), limit))}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{At: last.Date, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		result.Items = append(result.Items, FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreatePriceRequest) (*PriceEntryDTO, error) {
	if req.ProductID == uuid.Nil || req.SupermarketID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId and supermarketId are required")
	}
	price := req.Price.Round(2)
	if !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	if price.GreaterThan(maxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price is too large")
	}

	if err := s.ensureExists(ctx, s.products, req.ProductID, "product not found"); err != nil {
		return nil, err
	}
	if err := s.ensureExists(ctx, s.supermarkets, req.SupermarketID, "supermarket not found"); err != nil {
		return nil, err
	}

	date := s.now()
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	}
	entry := &models.PriceEntry{
		Price:         price,
		Date:          date.UTC().Truncate(time.Microsecond),
		UserID:        userID,
		ProductID:     req.ProductID,
		SupermarketID: req.SupermarketID,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create price entry")
	}
	if s.metrics != nil {
		s.metrics.PriceRecorded()
	}

	saved, err := s.repo.FindByID(ctx, entry.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload price entry")
	}
	dto := FromModel(saved)
	return &dto, nil
}

func (s *service) ensureExists(ctx context.Context, checker existenceChecker, id uuid.UUID, message string) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reference")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return nil
}
