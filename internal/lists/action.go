package lists

import (
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
)

// Action is one of the updates PUT /api/lists/{id} can perform.
type Action interface {
	actionName() string
}

type RenameList struct {
	Name string
}

type ToggleItem struct {
	ItemID uuid.UUID
}

type DeleteItem struct {
	ItemID uuid.UUID
}

type AddItem struct {
	ProductID uuid.UUID
	Quantity  int
}

func (RenameList) actionName() string { return "rename" }
func (ToggleItem) actionName() string { return "toggle" }
func (DeleteItem) actionName() string { return "deleteItem" }
func (AddItem) actionName() string    { return "addItem" }

// ParseAction validates the request and returns the matching Action. A body
// without an action but with a name is a rename.
func ParseAction(req UpdateListRequest) (Action, error) {
	action := strings.TrimSpace(req.Action)
	if action == "" && req.Name != nil {
		action = "rename"
	}

	switch action {
	case "rename":
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		name := strings.TrimSpace(*req.Name)
		if len(name) > 120 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is too long")
		}
		return RenameList{Name: name}, nil
	case "toggle":
		id, err := requireID(req.ItemID, "itemId")
		if err != nil {
			return nil, err
		}
		return ToggleItem{ItemID: id}, nil
	case "deleteItem":
		id, err := requireID(req.ItemID, "itemId")
		if err != nil {
			return nil, err
		}
		return DeleteItem{ItemID: id}, nil
	case "addItem":
		id, err := requireID(req.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		qty, err := quantityOrDefault(req.Quantity)
		if err != nil {
			return nil, err
		}
		return AddItem{ProductID: id, Quantity: qty}, nil
	case "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action or name is required")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown action").
			WithDetails(map[string]any{"action": action})
	}
}

func requireID(id *uuid.UUID, field string) (uuid.UUID, error) {
	if id == nil || *id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	return *id, nil
}

func quantityOrDefault(q *int) (int, error) {
	if q == nil {
		return 1, nil
	}
	if *q < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return *q, nil
}
