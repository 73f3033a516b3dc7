package lists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/repo"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists shopping lists and their items.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// SummaryRow is a list with its item count.
type SummaryRow struct {
	ID        uuid.UUID
	Name      string
	ItemCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListSummaries returns the user's lists, most recently updated first.
func (r *Repository) ListSummaries(ctx context.Context, userID uuid.UUID) ([]SummaryRow, error) {
	var rows []SummaryRow
	err := r.DB(ctx).
		Model(&models.ShoppingList{}).
		Select(`shopping_lists.id, shopping_lists.name, shopping_lists.created_at, shopping_lists.updated_at,
			(SELECT COUNT(*) FROM shopping_list_items i WHERE i.shopping_list_id = shopping_lists.id) AS item_count`).
		Where("shopping_lists.user_id = ?", userID).
		Order("shopping_lists.updated_at DESC").
		Order("shopping_lists.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the list together with any items it carries.
func (r *Repository) Create(ctx context.Context, list *models.ShoppingList) error {
	return r.DB(ctx).Create(list).Error
}

// FindByID loads the list without items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := r.DB(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// FindWithItems loads the list with items (unchecked first, then insertion
// order) and their products.
func (r *Repository) FindWithItems(ctx context.Context, id uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("checked ASC").Order("created_at ASC").Order("id ASC")
		}).
		Preload("Items.Product").
		First(&list, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// LatestForUser returns the most recently updated list of the user.
func (r *Repository) LatestForUser(ctx context.Context, userID uuid.UUID) (*models.ShoppingList, error) {
	var list models.ShoppingList
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// RecentWithItems returns the user's newest lists by creation, items in
// insertion order with products.
func (r *Repository) RecentWithItems(ctx context.Context, userID uuid.UUID, limit int) ([]models.ShoppingList, error) {
	var rows []models.ShoppingList
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Items.Product").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Rename sets the list name and bumps updated_at.
func (r *Repository) Rename(ctx context.Context, id uuid.UUID, name string, at time.Time) error {
	return r.DB(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "updated_at": at}).Error
}

// Touch bumps updated_at after an item-level change.
func (r *Repository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.ShoppingList{}).
		Where("id = ?", id).
		UpdateColumn("updated_at", at).Error
}

// Delete removes the list. Items go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.ShoppingList{}, "id = ?", id).Error
}

// AddItem inserts one item.
func (r *Repository) AddItem(ctx context.Context, item *models.ShoppingListItem) error {
	return r.DB(ctx).Create(item).Error
}

// FindItem loads an item with its product.
func (r *Repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.ShoppingListItem, error) {
	var item models.ShoppingListItem
	if err := r.DB(ctx).Preload("Product").First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleItem flips checked on an item of the list. It reports whether a
// row matched.
func (r *Repository) ToggleItem(ctx context.Context, listID, itemID uuid.UUID, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.ShoppingListItem{}).
		Where("id = ? AND shopping_list_id = ?", itemID, listID).
		UpdateColumns(map[string]any{"checked": gorm.Expr("NOT checked"), "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

// SetChecked sets checked on an item of the list.
func (r *Repository) SetChecked(ctx context.Context, listID, itemID uuid.UUID, checked bool, at time.Time) (bool, error) {
	res := r.DB(ctx).
		Model(&models.ShoppingListItem{}).
		Where("id = ? AND shopping_list_id = ?", itemID, listID).
		UpdateColumns(map[string]any{"checked": checked, "updated_at": at})
	return res.RowsAffected > 0, res.Error
}

// DeleteItem removes an item of the list.
func (r *Repository) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("id = ? AND shopping_list_id = ?", itemID, listID).
		Delete(&models.ShoppingListItem{})
	return res.RowsAffected > 0, res.Error
}
