package shopper

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/guiamercado/guiamercado-backend/internal/apiclient"
	"github.com/guiamercado/guiamercado-backend/internal/barcode"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

func (a *App) Search(ctx context.Context, q apiclient.ProductQuery) ([]products.ProductDTO, error) {
	found, err := a.api.Products(ctx, q)
	if err != nil {
		return nil, err
	}
	a.renderProducts(found)
	return found, nil
}

// Nearby lists supermarkets, asking the API for nearest-first ordering when
// the position is known and falling back to name order otherwise.
func (a *App) Nearby(ctx context.Context) ([]supermarkets.SupermarketDTO, geo.Location, error) {
	loc := a.locate(ctx)
	var origin *geo.Point
	if loc.State == geo.StateReady {
		origin = &loc.Point
	}
	markets, err := a.api.Supermarkets(ctx, origin)
	if err != nil {
		return nil, loc, err
	}
	a.renderSupermarkets(markets, a.selection.Get())
	return markets, loc, nil
}

// Select makes the supermarket with id the current one.
func (a *App) Select(ctx context.Context, id uuid.UUID) (*supermarkets.SupermarketDTO, error) {
	market, err := a.api.Supermarket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := a.selection.Set(market); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save selected supermarket")
	}
	a.printf("selected %s\n", market.Name)
	return market, nil
}

func (a *App) ClearSelection() error {
	if err := a.selection.Set(nil); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear selected supermarket")
	}
	a.printf("selection cleared\n")
	return nil
}

// NewPrice records a price at the selected supermarket.
func (a *App) NewPrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal, date *time.Time) (*prices.PriceEntryDTO, error) {
	market := a.selection.Get()
	if market == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "select a supermarket first")
	}
	if !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	entry, err := a.api.CreatePrice(ctx, prices.CreatePriceRequest{
		SupermarketID: market.ID,
		ProductID:     productID,
		Price:         price,
		Date:          date,
	})
	if err != nil {
		return nil, err
	}
	a.printf("recorded %s at %s\n", formatPrice(entry.Price), market.Name)
	return entry, nil
}

func (a *App) NewProduct(ctx context.Context, req products.CreateProductRequest) (*products.ProductDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	created, err := a.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printf("created product %s (%s)\n", created.Name, created.ID)
	return created, nil
}

func (a *App) NewSupermarket(ctx context.Context, req supermarkets.CreateSupermarketRequest) (*supermarkets.SupermarketDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "latitude and longitude must be given together")
	}
	created, err := a.api.CreateSupermarket(ctx, req)
	if err != nil {
		return nil, err
	}
	a.printf("created supermarket %s (%s)\n", created.Name, created.ID)
	return created, nil
}

// ScanCatalog resolves code against the first catalog page before falling
// back to the barcode lookup, the way a scan from the product screen does.
// A catalog that cannot be loaded only skips the local match.
func (a *App) ScanCatalog(ctx context.Context, code string) (barcode.Outcome, error) {
	loaded, err := a.api.Products(ctx, apiclient.ProductQuery{})
	if err != nil {
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "catalog unavailable for local barcode match")
		loaded = nil
	}
	return a.Scan(ctx, code, loaded)
}

// Scan resolves a scanned code against loaded, the products already on
// screen. When the user agrees to register an unknown code the product is
// created with the name they type.
func (a *App) Scan(ctx context.Context, code string, loaded []products.ProductDTO) (barcode.Outcome, error) {
	if a.resolver == nil {
		return barcode.Outcome{}, pkgerrors.New(pkgerrors.CodeInternal, "barcode scanning needs an interactive prompt")
	}
	out, err := a.resolver.Resolve(ctx, code, loaded)
	if err != nil {
		return barcode.Outcome{}, err
	}

	switch out.Action {
	case barcode.ActionSelect:
		a.renderProducts([]products.ProductDTO{*out.Product})
	case barcode.ActionCreate:
		name, err := a.ask(ctx, "product name:")
		if err != nil {
			return barcode.Outcome{}, err
		}
		out.Draft.Name = name
		created, err := a.NewProduct(ctx, *out.Draft)
		if err != nil {
			return barcode.Outcome{}, err
		}
		out.Product = created
	case barcode.ActionNone:
		a.printf("nothing registered\n")
	}
	return out, nil
}
