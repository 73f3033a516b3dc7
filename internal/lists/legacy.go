package lists

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/pkg/db"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"gorm.io/gorm"
)

// The single-list endpoints (/api/list) operate on the caller's most
// recently updated list, creating one on first use. Item writes and the
// list's updated_at bump share one transaction.

// Current returns the caller's current list with items sorted by product name.
func (s *service) Current(ctx context.Context, userID uuid.UUID) (*ListDTO, error) {
	list, err := s.currentList(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto, err := s.load(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(dto.Items, func(i, j int) bool {
		return strings.ToLower(productName(dto.Items[i])) < strings.ToLower(productName(dto.Items[j]))
	})
	return dto, nil
}

func (s *service) AddToCurrent(ctx context.Context, userID uuid.UUID, req NewItemRequest) (*ItemDTO, error) {
	qty, err := quantityOrDefault(req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, req.ProductID); err != nil {
		return nil, err
	}
	list, err := s.currentList(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &models.ShoppingListItem{ShoppingListID: list.ID, ProductID: req.ProductID, Quantity: qty, CreatedAt: now}
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.AddItem(ctx, item); err != nil {
			return err
		}
		return txRepo.Touch(ctx, list.ID, now)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add list item")
	}
	return s.loadItem(ctx, item.ID)
}

func (s *service) SetItemChecked(ctx context.Context, userID uuid.UUID, req SetCheckedRequest) (*ItemDTO, error) {
	item, err := s.ownedItem(ctx, userID, req.ItemID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.SetChecked(ctx, item.ShoppingListID, item.ID, req.Checked, now); err != nil {
			return err
		}
		return txRepo.Touch(ctx, item.ShoppingListID, now)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update list item")
	}
	return s.loadItem(ctx, item.ID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	now := s.now().UTC()
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.DeleteItem(ctx, item.ShoppingListID, item.ID); err != nil {
			return err
		}
		return txRepo.Touch(ctx, item.ShoppingListID, now)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete list item")
	}
	return nil
}

func (s *service) currentList(ctx context.Context, userID uuid.UUID) (*models.ShoppingList, error) {
	list, err := s.repo.LatestForUser(ctx, userID)
	if err == nil {
		return list, nil
	}
	if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load current list")
	}
	now := s.now().UTC()
	list = &models.ShoppingList{Name: models.DefaultListName, UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create default list")
	}
	return list, nil
}

// ownedItem loads an item that sits on one of the caller's lists.
func (s *service) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load list item")
	}
	if _, err := s.loadOwned(ctx, userID, item.ShoppingListID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}
		return nil, err
	}
	return item, nil
}

func (s *service) loadItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload list item")
	}
	return itemFromModel(item), nil
}

func productName(item ItemDTO) string {
	if item.Product == nil {
		return ""
	}
	return item.Product.Name
}
