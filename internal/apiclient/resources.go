package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/internal/users"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
)

func (c *Client) Signup(ctx context.Context, req auth.SignupRequest) (*users.UserDTO, error) {
	var user users.UserDTO
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/signup", body: req}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login opens a session and keeps its token for subsequent calls.
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (*users.UserDTO, error) {
	var user users.UserDTO
	resp, err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/login", body: req}, &user)
	if err != nil {
		return nil, err
	}
	if token := resp.Header.Get(tokenHeader); token != "" {
		c.setToken(token)
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/logout"}, nil)
	c.setToken("")
	return err
}

func (c *Client) Session(ctx context.Context) (*users.UserDTO, error) {
	var user users.UserDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/auth/session"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ProductQuery mirrors the product listing filters.
type ProductQuery struct {
	Search   string
	Category string
	Barcode  string
	Limit    int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Barcode != "" {
		v.Set("barcode", q.Barcode)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]products.ProductDTO, error) {
	var out []products.ProductDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/products", query: q.values()}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProductsByBarcode asks the API for exact barcode matches.
func (c *Client) ProductsByBarcode(ctx context.Context, code string) ([]products.ProductDTO, error) {
	return c.Products(ctx, ProductQuery{Barcode: code})
}

func (c *Client) CreateProduct(ctx context.Context, req products.CreateProductRequest) (*products.ProductDTO, error) {
	var out products.ProductDTO
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/api/products", body: req, idempotent: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Supermarkets lists supermarkets, nearest-first when origin is set.
func (c *Client) Supermarkets(ctx context.Context, origin *geo.Point) ([]supermarkets.SupermarketDTO, error) {
	q := url.Values{}
	if origin != nil {
		q.Set("lat", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(origin.Lng, 'f', -1, 64))
	}
	var out []supermarkets.SupermarketDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/supermarkets", query: q}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Supermarket(ctx context.Context, id uuid.UUID) (*supermarkets.SupermarketDTO, error) {
	var out supermarkets.SupermarketDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/supermarkets/" + id.String()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSupermarket(ctx context.Context, req supermarkets.CreateSupermarketRequest) (*supermarkets.SupermarketDTO, error) {
	var out supermarkets.SupermarketDTO
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/api/supermarkets", body: req, idempotent: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PriceQuery narrows and pages the price listing.
type PriceQuery struct {
	ProductID     *uuid.UUID
	SupermarketID *uuid.UUID
	Limit         int
	Cursor        string
}

func (c *Client) Prices(ctx context.Context, q PriceQuery) (*prices.ListResult, error) {
	v := url.Values{}
	if q.ProductID != nil {
		v.Set("productId", q.ProductID.String())
	}
	if q.SupermarketID != nil {
		v.Set("supermarketId", q.SupermarketID.String())
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	var out prices.ListResult
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/prices", query: v}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePrice(ctx context.Context, req prices.CreatePriceRequest) (*prices.PriceEntryDTO, error) {
	var out prices.PriceEntryDTO
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/api/prices", body: req, idempotent: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Lists(ctx context.Context) ([]lists.ListSummaryDTO, error) {
	var out []lists.ListSummaryDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/lists"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateList(ctx context.Context, req lists.CreateListRequest) (*lists.ListDTO, error) {
	var out lists.ListDTO
	if _, err := c.do(ctx, call{method: http.MethodPost, path: "/api/lists", body: req, idempotent: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, id uuid.UUID) (*lists.ListDTO, error) {
	var out lists.ListDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: listPath(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecentProducts(ctx context.Context) ([]products.ProductDTO, error) {
	var out []products.ProductDTO
	if _, err := c.do(ctx, call{method: http.MethodGet, path: "/api/lists/recent"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RenameList(ctx context.Context, id uuid.UUID, name string) (*lists.ListDTO, error) {
	var out lists.ListDTO
	body := lists.UpdateListRequest{Action: "rename", Name: &name}
	if _, err := c.do(ctx, call{method: http.MethodPut, path: listPath(id), body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ToggleItem(ctx context.Context, listID, itemID uuid.UUID) error {
	return c.updateItems(ctx, listID, lists.UpdateListRequest{Action: "toggle", ItemID: &itemID})
}

func (c *Client) DeleteItem(ctx context.Context, listID, itemID uuid.UUID) error {
	return c.updateItems(ctx, listID, lists.UpdateListRequest{Action: "deleteItem", ItemID: &itemID})
}

func (c *Client) AddItem(ctx context.Context, listID, productID uuid.UUID, quantity int) error {
	req := lists.UpdateListRequest{Action: "addItem", ProductID: &productID}
	if quantity > 0 {
		req.Quantity = &quantity
	}
	return c.updateItems(ctx, listID, req)
}

func (c *Client) updateItems(ctx context.Context, listID uuid.UUID, req lists.UpdateListRequest) error {
	var ack struct {
		Success bool `json:"success"`
	}
	_, err := c.do(ctx, call{method: http.MethodPut, path: listPath(listID), body: req}, &ack)
	return err
}

func (c *Client) DeleteList(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, call{method: http.MethodDelete, path: listPath(id)}, nil)
	return err
}

func listPath(id uuid.UUID) string {
	return "/api/lists/" + id.String()
}
