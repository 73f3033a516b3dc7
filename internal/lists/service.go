package lists

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	listNotFoundMessage = "list not found"
	itemNotFoundMessage = "item not found"
)

// Service exposes shopping list operations. Every operation is scoped to
// the calling user; lists owned by someone else are reported as not found.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ListSummaryDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateListRequest) (*ListDTO, error)
	Get(ctx context.Context, userID, listID uuid.UUID) (*ListDTO, error)
	Update(ctx context.Context, userID, listID uuid.UUID, action Action) (*UpdateResult, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	RecentProducts(ctx context.Context, userID uuid.UUID) ([]products.ProductDTO, error)

	Current(ctx context.Context, userID uuid.UUID) (*ListDTO, error)
	AddToCurrent(ctx context.Context, userID uuid.UUID, req NewItemRequest) (*ItemDTO, error)
	SetItemChecked(ctx context.Context, userID uuid.UUID, req SetCheckedRequest) (*ItemDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type productChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams bundles the list service dependencies.
type ServiceParams struct {
	Repo     *Repository
	DB       txRunner
	Products productChecker
	Now      func() time.Time
}

type service struct {
	repo     *Repository
	db       txRunner
	products productChecker
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "list repository required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product lookup required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, db: params.DB, products: params.Products, now: now}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ListSummaryDTO, error) {
	rows, err := s.repo.ListSummaries(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shopping lists")
	}
	out := make([]ListSummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ListSummaryDTO{
			ID:        row.ID,
			Name:      row.Name,
			ItemCount: row.ItemCount,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateListRequest) (*ListDTO, error) {
	name := models.DefaultListName
	if req.Name != nil {
		if trimmed := strings.TrimSpace(*req.Name); trimmed != "" {
			name = trimmed
		}
	}

	now := s.now().UTC()
	list := &models.ShoppingList{Name: name, UserID: userID, CreatedAt: now, UpdatedAt: now}
	for i, item := range req.Items {
		qty, err := quantityOrDefault(item.Quantity)
		if err != nil {
			return nil, err
		}
		if err := s.ensureProduct(ctx, item.ProductID); err != nil {
			return nil, err
		}
		list.Items = append(list.Items, models.ShoppingListItem{
			ProductID: item.ProductID,
			Quantity:  qty,
			// Spread timestamps so insertion order survives microsecond columns.
			CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
		})
	}

	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, list)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create shopping list")
	}
	return s.load(ctx, list.ID)
}

func (s *service) Get(ctx context.Context, userID, listID uuid.UUID) (*ListDTO, error) {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.load(ctx, listID)
}

// Update dispatches one list action. Every action bumps the list's
// updated_at in the same transaction as the change.
func (s *service) Update(ctx context.Context, userID, listID uuid.UUID, action Action) (*UpdateResult, error) {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return nil, err
	}
	if a, ok := action.(AddItem); ok {
		if err := s.ensureProduct(ctx, a.ProductID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		switch a := action.(type) {
		case RenameList:
			return txRepo.Rename(ctx, listID, a.Name, now)
		case ToggleItem:
			ok, err := txRepo.ToggleItem(ctx, listID, a.ItemID, now)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
			}
		case DeleteItem:
			ok, err := txRepo.DeleteItem(ctx, listID, a.ItemID)
			if err != nil {
				return err
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
			}
		case AddItem:
			item := &models.ShoppingListItem{ShoppingListID: listID, ProductID: a.ProductID, Quantity: a.Quantity, CreatedAt: now}
			if err := txRepo.AddItem(ctx, item); err != nil {
				return err
			}
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown action")
		}
		return txRepo.Touch(ctx, listID, now)
	})
	if err != nil {
		return nil, asServiceError(err, "update shopping list")
	}

	if _, ok := action.(RenameList); ok {
		list, err := s.load(ctx, listID)
		if err != nil {
			return nil, err
		}
		return &UpdateResult{List: list, Success: true}, nil
	}
	return &UpdateResult{Success: true}, nil
}

func (s *service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, listID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete shopping list")
	}
	return nil
}

func (s *service) RecentProducts(ctx context.Context, userID uuid.UUID) ([]products.ProductDTO, error) {
	rows, err := s.repo.RecentWithItems(ctx, userID, RecentListCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recent lists")
	}
	return DistinctProducts(rows), nil
}

// loadOwned returns the list when it exists and belongs to the user.
func (s *service) loadOwned(ctx context.Context, userID, listID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repo.FindByID(ctx, listID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, listNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list")
	}
	if list.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, listNotFoundMessage)
	}
	return list, nil
}

func (s *service) load(ctx context.Context, listID uuid.UUID) (*ListDTO, error) {
	list, err := s.repo.FindWithItems(ctx, listID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, listNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shopping list")
	}
	return listFromModel(list), nil
}

func (s *service) ensureProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	ok, err := s.products.Exists(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

// asServiceError keeps typed errors raised inside a transaction and wraps
// anything else as internal.
func asServiceError(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
