// Package barcode resolves a scanned code to a catalog product: first among
// the products already on screen, then through the API, and finally by
// offering to register a new product.
package barcode

import (
	"context"
	"strings"

	"github.com/guiamercado/guiamercado-backend/internal/products"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

// Action tells the caller what to do with a resolved code.
type Action int

const (
	// ActionNone means the user declined to register the unknown code.
	ActionNone Action = iota
	// ActionSelect means Outcome.Product is the scanned product.
	ActionSelect
	// ActionCreate means Outcome.Draft should prefill a new product form.
	ActionCreate
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionCreate:
		return "create"
	default:
		return "none"
	}
}

// Outcome is the result of resolving one code.
type Outcome struct {
	Action  Action
	Product *products.ProductDTO
	Draft   *products.CreateProductRequest
}

// Lookup queries the catalog by exact barcode.
type Lookup interface {
	ProductsByBarcode(ctx context.Context, code string) ([]products.ProductDTO, error)
}

// Confirmer asks the user whether an unknown code should become a product.
type Confirmer interface {
	ConfirmCreate(ctx context.Context, code string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, code string) (bool, error)

func (f ConfirmFunc) ConfirmCreate(ctx context.Context, code string) (bool, error) {
	return f(ctx, code)
}

type Resolver struct {
	lookup  Lookup
	confirm Confirmer
	logg    *logger.Logger
}

func NewResolver(lookup Lookup, confirm Confirmer, logg *logger.Logger) (*Resolver, error) {
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "barcode lookup is required")
	}
	if confirm == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "barcode confirmer is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Resolver{lookup: lookup, confirm: confirm, logg: logg}, nil
}

// Resolve walks the three tiers for code. loaded are the products the
// caller already has in memory.
func (r *Resolver) Resolve(ctx context.Context, code string, loaded []products.ProductDTO) (Outcome, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	ctx = r.logg.WithField(ctx, "barcode", code)

	if p := matchLoaded(code, loaded); p != nil {
		return Outcome{Action: ActionSelect, Product: p}, nil
	}

	found, err := r.lookup.ProductsByBarcode(ctx, code)
	switch {
	case err != nil:
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "barcode lookup failed")
	case len(found) > 0:
		p := found[0]
		return Outcome{Action: ActionSelect, Product: &p}, nil
	}

	ok, err := r.confirm.ConfirmCreate(ctx, code)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Outcome{Action: ActionNone}, nil
	}
	barcode := code
	return Outcome{Action: ActionCreate, Draft: &products.CreateProductRequest{Barcode: &barcode}}, nil
}

func matchLoaded(code string, loaded []products.ProductDTO) *products.ProductDTO {
	for i := range loaded {
		if loaded[i].Barcode != nil && *loaded[i].Barcode == code {
			p := loaded[i]
			return &p
		}
	}
	return nil
}
