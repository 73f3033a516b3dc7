package shopper

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
)

func (a *App) Lists(ctx context.Context) ([]lists.ListSummaryDTO, error) {
	all, err := a.api.Lists(ctx)
	if err != nil {
		return nil, err
	}
	a.renderListIndex(all)
	return all, nil
}

// NewList creates a list. Without explicit products the user is offered the
// products of their recent lists and picks them by number.
func (a *App) NewList(ctx context.Context, name string, productIDs []uuid.UUID) (*lists.ListDTO, error) {
	if len(productIDs) == 0 && a.prompt != nil {
		picked, err := a.pickSuggestions(ctx)
		if err != nil {
			return nil, err
		}
		productIDs = picked
	}

	req := lists.CreateListRequest{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		req.Name = &trimmed
	}
	for _, id := range productIDs {
		req.Items = append(req.Items, lists.NewItemRequest{ProductID: id})
	}
	created, err := a.api.CreateList(ctx, req)
	if err != nil {
		return nil, err
	}
	a.renderList(created)
	return created, nil
}

func (a *App) pickSuggestions(ctx context.Context) ([]uuid.UUID, error) {
	recent, err := a.api.RecentProducts(ctx)
	if err != nil {
		// Suggestions are optional.
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "recent products unavailable")
		return nil, nil
	}
	if len(recent) == 0 {
		return nil, nil
	}
	a.printf("recently used:\n")
	a.renderNumberedProducts(recent)
	answer, err := a.ask(ctx, "add which? (e.g. 1,3, empty for none)")
	if err != nil {
		return nil, err
	}
	return parsePicks(answer, recent)
}

func parsePicks(answer string, from []products.ProductDTO) ([]uuid.UUID, error) {
	var picked []uuid.UUID
	seen := make(map[int]struct{})
	for _, field := range strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(from) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid choice "+strconv.Quote(field))
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		picked = append(picked, from[n-1].ID)
	}
	return picked, nil
}

func (a *App) ListDetail(ctx context.Context, id uuid.UUID) (*lists.ListDTO, error) {
	list, err := a.api.List(ctx, id)
	if err != nil {
		return nil, err
	}
	a.renderList(list)
	return list, nil
}

func (a *App) RenameList(ctx context.Context, id uuid.UUID, name string) (*lists.ListDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	list, err := a.api.RenameList(ctx, id, name)
	if err != nil {
		return nil, err
	}
	a.printf("renamed to %s\n", list.Name)
	return list, nil
}

func (a *App) AddItem(ctx context.Context, listID, productID uuid.UUID, quantity int) (*lists.ListDTO, error) {
	if err := a.api.AddItem(ctx, listID, productID, quantity); err != nil {
		return nil, err
	}
	return a.ListDetail(ctx, listID)
}

func (a *App) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) (*lists.ListDTO, error) {
	if err := a.api.DeleteItem(ctx, listID, itemID); err != nil {
		return nil, err
	}
	return a.ListDetail(ctx, listID)
}

func (a *App) DeleteList(ctx context.Context, id uuid.UUID) error {
	if err := a.api.DeleteList(ctx, id); err != nil {
		return err
	}
	a.printf("list deleted\n")
	return nil
}

// Toggle flips an item's checked state speculatively: the returned view
// shows the new state at once, and when the server rejects the change the
// list is fetched again so the view matches the server before the error is
// returned.
func (a *App) Toggle(ctx context.Context, list *lists.ListDTO, itemID uuid.UUID) (*lists.ListDTO, error) {
	if list == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list is required")
	}
	speculative, ok := withToggled(list, itemID)
	if !ok {
		return list, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	a.renderList(speculative)

	err := a.api.ToggleItem(ctx, list.ID, itemID)
	if err == nil {
		return speculative, nil
	}

	fresh, refetchErr := a.api.List(ctx, list.ID)
	if refetchErr != nil {
		a.renderList(list)
		return list, multierr.Append(err, refetchErr)
	}
	a.renderList(fresh)
	return fresh, err
}

func withToggled(list *lists.ListDTO, itemID uuid.UUID) (*lists.ListDTO, bool) {
	next := *list
	next.Items = make([]lists.ItemDTO, len(list.Items))
	copy(next.Items, list.Items)
	for i := range next.Items {
		if next.Items[i].ID == itemID {
			next.Items[i].Checked = !next.Items[i].Checked
			return &next, true
		}
	}
	return list, false
}
