package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
)

const (
	outcomeCreated          = "created"
	outcomeDuplicateBarcode = "duplicate_barcode"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error)
}

type outcomeRecorder interface {
	ProductCreated(outcome string)
}

type service struct {
	repo    *Repository
	limits  pagination.Limits
	metrics outcomeRecorder
}

// NewService constructs a product service. The recorder may be nil.
func NewService(repo *Repository, limits pagination.Limits, recorder outcomeRecorder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	return &service{repo: repo, limits: limits, metrics: recorder}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filters, s.limits.Normalize(filters.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return fromModels(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return FromModel(product), nil
}

func (s *service) Create(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	created, err := s.repo.Create(ctx, req.toModel())
	if err != nil {
		if db.IsUniqueViolation(err, "barcode") {
			s.record(outcomeDuplicateBarcode)
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a product with this barcode already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	s.record(outcomeCreated)
	return FromModel(created), nil
}

func (s *service) record(outcome string) {
	if s.metrics != nil {
		s.metrics.ProductCreated(outcome)
	}
}
