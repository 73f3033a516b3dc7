// Package shopper implements the shopper's page flows on top of the API
// client: dashboard, catalog search, supermarket selection, price capture
// and shopping lists.
package shopper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guiamercado/guiamercado-backend/internal/apiclient"
	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/barcode"
	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/selection"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/internal/users"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

// API is the slice of the REST API the flows use. *apiclient.Client
// satisfies it.
type API interface {
	barcode.Lookup

	Signup(ctx context.Context, req auth.SignupRequest) (*users.UserDTO, error)
	Login(ctx context.Context, req auth.LoginRequest) (*users.UserDTO, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*users.UserDTO, error)

	Products(ctx context.Context, q apiclient.ProductQuery) ([]products.ProductDTO, error)
	CreateProduct(ctx context.Context, req products.CreateProductRequest) (*products.ProductDTO, error)

	Supermarkets(ctx context.Context, origin *geo.Point) ([]supermarkets.SupermarketDTO, error)
	Supermarket(ctx context.Context, id uuid.UUID) (*supermarkets.SupermarketDTO, error)
	CreateSupermarket(ctx context.Context, req supermarkets.CreateSupermarketRequest) (*supermarkets.SupermarketDTO, error)

	Prices(ctx context.Context, q apiclient.PriceQuery) (*prices.ListResult, error)
	CreatePrice(ctx context.Context, req prices.CreatePriceRequest) (*prices.PriceEntryDTO, error)

	Lists(ctx context.Context) ([]lists.ListSummaryDTO, error)
	CreateList(ctx context.Context, req lists.CreateListRequest) (*lists.ListDTO, error)
	List(ctx context.Context, id uuid.UUID) (*lists.ListDTO, error)
	RecentProducts(ctx context.Context) ([]products.ProductDTO, error)
	RenameList(ctx context.Context, id uuid.UUID, name string) (*lists.ListDTO, error)
	ToggleItem(ctx context.Context, listID, itemID uuid.UUID) error
	DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error
	AddItem(ctx context.Context, listID, productID uuid.UUID, quantity int) error
	DeleteList(ctx context.Context, id uuid.UUID) error
}

// Prompter asks the user a free-form question.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Options wires an App.
type Options struct {
	API             API
	Selection       *selection.Store
	Locator         geo.Locator
	LocationTimeout time.Duration
	Prompter        Prompter
	Resolver        *barcode.Resolver
	Tokens          *TokenStore
	Out             io.Writer
	Err             io.Writer
	Logger          *logger.Logger
}

type App struct {
	api             API
	selection       *selection.Store
	locator         geo.Locator
	locationTimeout time.Duration
	prompt          Prompter
	resolver        *barcode.Resolver
	tokens          *TokenStore
	out             io.Writer
	errOut          io.Writer
	logg            *logger.Logger
}

func New(opts Options) (*App, error) {
	if opts.API == nil {
		return nil, errors.New("api client required")
	}
	if opts.Selection == nil {
		return nil, errors.New("selection store required")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Resolver == nil && opts.Prompter != nil {
		resolver, err := barcode.NewResolver(opts.API, yesNo{opts.Prompter}, opts.Logger)
		if err != nil {
			return nil, err
		}
		opts.Resolver = resolver
	}
	return &App{
		api:             opts.API,
		selection:       opts.Selection,
		locator:         opts.Locator,
		locationTimeout: opts.LocationTimeout,
		prompt:          opts.Prompter,
		resolver:        opts.Resolver,
		tokens:          opts.Tokens,
		out:             opts.Out,
		errOut:          opts.Err,
		logg:            opts.Logger,
	}, nil
}

// Banner is the single place errors reach the user: one "! message" line on
// the error stream plus a structured log entry.
func (a *App) Banner(ctx context.Context, err error) {
	if err == nil {
		return
	}
	a.logg.Error(ctx, "shopper action failed", err)
	fmt.Fprintf(a.errOut, "! %s\n", bannerMessage(err))
}

func bannerMessage(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err.Error()
	}
	switch typed.Code() {
	case pkgerrors.CodeUnauthorized:
		return "please log in first"
	case pkgerrors.CodeDependency:
		return "the service is unavailable, try again later"
	case pkgerrors.CodeInternal:
		return "something went wrong"
	}
	return typed.Message()
}

func (a *App) ask(ctx context.Context, question string) (string, error) {
	if a.prompt == nil {
		return "", nil
	}
	return a.prompt.Ask(ctx, question)
}

// yesNo turns a Prompter into the confirmation the barcode resolver needs.
type yesNo struct {
	prompt Prompter
}

func (y yesNo) ConfirmCreate(ctx context.Context, code string) (bool, error) {
	answer, err := y.prompt.Ask(ctx, fmt.Sprintf("barcode %s not found, register a new product? [y/N]", code))
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}
