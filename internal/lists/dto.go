package lists

import (
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
)

// ListSummaryDTO is a list row in the index, without items.
type ListSummaryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListDTO is a shopping list with its items.
type ListDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Items     []ItemDTO `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemDTO is one product line of a list.
type ItemDTO struct {
	ID             uuid.UUID            `json:"id"`
	ShoppingListID uuid.UUID            `json:"shoppingListId"`
	ProductID      uuid.UUID            `json:"productId"`
	Product        *products.ProductDTO `json:"product"`
	Quantity       int                  `json:"quantity"`
	Checked        bool                 `json:"checked"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// NewItemRequest adds a product to a list. Quantity defaults to 1.
type NewItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  *int      `json:"quantity,omitempty" validate:"omitempty,min=1,max=999"`
}

// CreateListRequest is the body accepted by POST /api/lists.
type CreateListRequest struct {
	Name  *string          `json:"name,omitempty" validate:"omitempty,max=120"`
	Items []NewItemRequest `json:"items,omitempty" validate:"omitempty,max=200,dive"`
}

// UpdateListRequest is the wire shape of PUT /api/lists/{id}. It is decoded
// once and turned into an Action by ParseAction.
type UpdateListRequest struct {
	Action    string     `json:"action,omitempty"`
	Name      *string    `json:"name,omitempty"`
	ItemID    *uuid.UUID `json:"itemId,omitempty"`
	ProductID *uuid.UUID `json:"productId,omitempty"`
	Quantity  *int       `json:"quantity,omitempty"`
}

// UpdateResult carries the list for a rename and only an acknowledgement
// for item actions.
type UpdateResult struct {
	List    *ListDTO
	Success bool
}

// SetCheckedRequest is the body of the single-list PUT.
type SetCheckedRequest struct {
	ItemID  uuid.UUID `json:"itemId" validate:"required"`
	Checked bool      `json:"checked"`
}

func listFromModel(l *models.ShoppingList) *ListDTO {
	out := &ListDTO{
		ID:        l.ID,
		Name:      l.Name,
		Items:     make([]ItemDTO, 0, len(l.Items)),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	for i := range l.Items {
		out.Items = append(out.Items, *itemFromModel(&l.Items[i]))
	}
	return out
}

func itemFromModel(i *models.ShoppingListItem) *ItemDTO {
	return &ItemDTO{
		ID:             i.ID,
		ShoppingListID: i.ShoppingListID,
		ProductID:      i.ProductID,
		Product:        products.FromModel(i.Product),
		Quantity:       i.Quantity,
		Checked:        i.Checked,
		CreatedAt:      i.CreatedAt,
	}
}
