package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/guiamercado/guiamercado-backend/internal/apiclient"
	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/selection"
	"github.com/guiamercado/guiamercado-backend/internal/shopper"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/config"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
)

const usage = `usage: shopper <command> [flags]

commands:
  signup -name -email -password     create an account
  login -email -password            open a session
  logout                            close the session
  whoami                            show the logged-in user
  dashboard                         recent prices and nearby supermarkets
  search [-q] [-category] [-barcode] [-limit]
  supermarkets                      list supermarkets, nearest first
  select <id> | select -clear       choose the supermarket you are at
  price -product <id> -price 19.90 [-date 2006-01-02]
  product -name [-barcode] [-category] [-image]
  supermarket -name [-address] [-lat -lng]
  scan <barcode>                    find or register a product by barcode
  lists                             your shopping lists
  list new [-name] [-product <id>]...
  list show|delete <list-id>
  list rename <list-id> <name>
  list add <list-id> <product-id> [quantity]
  list toggle|remove <list-id> <item-id>
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadShopper()
	if err != nil {
		fmt.Fprintln(os.Stderr, "!", err)
		os.Exit(1)
	}

	logg := logger.New(logger.Options{
		ServiceName: "shopper",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		Output:      os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to start shopper", err)
		fmt.Fprintln(os.Stderr, "!", err)
		os.Exit(1)
	}

	if err := run(ctx, app, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		app.Banner(ctx, err)
		os.Exit(1)
	}
}

func build(ctx context.Context, cfg *config.ShopperConfig, logg *logger.Logger) (*shopper.App, error) {
	persister, err := selection.NewFilePersister(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	tokens := shopper.NewTokenStore(persister)
	token, err := tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	client, err := apiclient.New(cfg.APIURL, apiclient.WithTimeout(cfg.HTTPTimeout), apiclient.WithToken(token))
	if err != nil {
		return nil, err
	}

	store, err := selection.Open(ctx, persister, logg)
	if err != nil {
		return nil, err
	}

	return shopper.New(shopper.Options{
		API:             client,
		Selection:       store,
		Locator:         geo.NewStaticLocator(cfg.Latitude, cfg.Longitude),
		LocationTimeout: cfg.LocationTimeout,
		Prompter:        newStdinPrompter(os.Stdin, os.Stdout),
		Tokens:          tokens,
		Out:             os.Stdout,
		Err:             os.Stderr,
		Logger:          logg,
	})
}

func run(ctx context.Context, app *shopper.App, args []string) error {
	if len(args) == 0 {
		return flag.ErrHelp
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "signup":
		fs := newFlagSet(cmd)
		name := fs.String("name", "", "display name")
		email := fs.String("email", "", "e-mail")
		password := fs.String("password", "", "password, at least 8 characters")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.Signup(ctx, auth.SignupRequest{Name: *name, Email: *email, Password: *password})
		return err

	case "login":
		fs := newFlagSet(cmd)
		email := fs.String("email", "", "e-mail")
		password := fs.String("password", "", "password")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.Login(ctx, auth.LoginRequest{Email: *email, Password: *password})
		return err

	case "logout":
		return app.Logout(ctx)

	case "whoami":
		_, err := app.Whoami(ctx)
		return err

	case "dashboard":
		_, err := app.Dashboard(ctx)
		return err

	case "search":
		fs := newFlagSet(cmd)
		q := fs.String("q", "", "text in the product name")
		category := fs.String("category", "", "exact category")
		code := fs.String("barcode", "", "exact barcode")
		limit := fs.Int("limit", 0, "maximum rows")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.Search(ctx, apiclient.ProductQuery{Search: *q, Category: *category, Barcode: *code, Limit: *limit})
		return err

	case "supermarkets":
		_, _, err := app.Nearby(ctx)
		return err

	case "select":
		fs := newFlagSet(cmd)
		clearSel := fs.Bool("clear", false, "forget the selected supermarket")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *clearSel {
			return app.ClearSelection()
		}
		id, err := uuidArg(fs.Args(), 0, "supermarket id")
		if err != nil {
			return err
		}
		_, err = app.Select(ctx, id)
		return err

	case "price":
		fs := newFlagSet(cmd)
		product := fs.String("product", "", "product id")
		amount := fs.String("price", "", "price, e.g. 19.90")
		date := fs.String("date", "", "purchase date, YYYY-MM-DD (default today)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		productID, err := parseUUID(*product, "product id")
		if err != nil {
			return err
		}
		price, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(*amount), ",", ".", 1))
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
		}
		var when *time.Time
		if *date != "" {
			parsed, err := time.Parse(time.DateOnly, *date)
			if err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
			}
			when = &parsed
		}
		_, err = app.NewPrice(ctx, productID, price, when)
		return err

	case "product":
		fs := newFlagSet(cmd)
		name := fs.String("name", "", "product name")
		code := fs.String("barcode", "", "barcode")
		category := fs.String("category", "", "category")
		image := fs.String("image", "", "image url")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.NewProduct(ctx, products.CreateProductRequest{
			Name:     *name,
			Barcode:  optional(*code),
			Category: optional(*category),
			ImageURL: optional(*image),
		})
		return err

	case "supermarket":
		fs := newFlagSet(cmd)
		name := fs.String("name", "", "supermarket name")
		address := fs.String("address", "", "street address")
		var lat, lng optionalFloat
		fs.Var(&lat, "lat", "latitude")
		fs.Var(&lng, "lng", "longitude")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.NewSupermarket(ctx, supermarkets.CreateSupermarketRequest{
			Name:      *name,
			Address:   optional(*address),
			Latitude:  lat.value,
			Longitude: lng.value,
		})
		return err

	case "scan":
		if len(rest) != 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "scan takes exactly one barcode")
		}
		_, err := app.ScanCatalog(ctx, rest[0])
		return err

	case "lists":
		_, err := app.Lists(ctx)
		return err

	case "list":
		return runList(ctx, app, rest)
	}
	return flag.ErrHelp
}

func runList(ctx context.Context, app *shopper.App, args []string) error {
	if len(args) == 0 {
		return flag.ErrHelp
	}
	sub, rest := args[0], args[1:]

	if sub == "new" {
		fs := newFlagSet("list new")
		name := fs.String("name", "", "list name")
		var picked uuidList
		fs.Var(&picked, "product", "product id to add (repeatable)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		_, err := app.NewList(ctx, *name, picked)
		return err
	}

	listID, err := uuidArg(rest, 0, "list id")
	if err != nil {
		return err
	}
	switch sub {
	case "show":
		_, err = app.ListDetail(ctx, listID)
	case "delete":
		err = app.DeleteList(ctx, listID)
	case "rename":
		if len(rest) < 2 {
			return pkgerrors.New(pkgerrors.CodeValidation, "new name is required")
		}
		_, err = app.RenameList(ctx, listID, strings.Join(rest[1:], " "))
	case "add":
		productID, perr := uuidArg(rest, 1, "product id")
		if perr != nil {
			return perr
		}
		quantity := 0
		if len(rest) > 2 {
			if _, serr := fmt.Sscan(rest[2], &quantity); serr != nil || quantity < 1 {
				return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive number")
			}
		}
		_, err = app.AddItem(ctx, listID, productID, quantity)
	case "toggle":
		itemID, ierr := uuidArg(rest, 1, "item id")
		if ierr != nil {
			return ierr
		}
		list, lerr := app.ListDetail(ctx, listID)
		if lerr != nil {
			return lerr
		}
		_, err = app.Toggle(ctx, list, itemID)
	case "remove":
		itemID, ierr := uuidArg(rest, 1, "item id")
		if ierr != nil {
			return ierr
		}
		_, err = app.DeleteItem(ctx, listID, itemID)
	default:
		return flag.ErrHelp
	}
	return err
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func uuidArg(args []string, i int, what string) (uuid.UUID, error) {
	if len(args) <= i {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, what+" is required")
	}
	return parseUUID(args[i], what)
}

func parseUUID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+what)
	}
	return id, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type optionalFloat struct {
	value *float64
}

func (o *optionalFloat) String() string {
	if o.value == nil {
		return ""
	}
	return fmt.Sprint(*o.value)
}

func (o *optionalFloat) Set(raw string) error {
	var v float64
	if _, err := fmt.Sscan(raw, &v); err != nil {
		return err
	}
	o.value = &v
	return nil
}

type uuidList []uuid.UUID

func (u *uuidList) String() string {
	return fmt.Sprint([]uuid.UUID(*u))
}

func (u *uuidList) Set(raw string) error {
	id, err := uuid.Parse(raw)
	if err != nil {
		return err
	}
	*u = append(*u, id)
	return nil
}

// stdinPrompter reads one line per question.
type stdinPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinPrompter(in io.Reader, out io.Writer) *stdinPrompter {
	return &stdinPrompter{in: bufio.NewReader(in), out: out}
}

func (p *stdinPrompter) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(p.out, "%s ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
