package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/geo"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
)

var testLimits = pagination.Limits{Default: 20, Max: 100}

type stubProductService struct {
	filters   products.ListFilters
	createErr error
	created   *products.CreateProductRequest
}

func (s *stubProductService) List(ctx context.Context, filters products.ListFilters) ([]products.ProductDTO, error) {
	s.filters = filters
	return []products.ProductDTO{{ID: uuid.New(), Name: "Arroz"}}, nil
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubProductService) Create(ctx context.Context, req products.CreateProductRequest) (*products.ProductDTO, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &req
	return &products.ProductDTO{ID: uuid.New(), Name: req.Name, Barcode: req.Barcode}, nil
}

func TestProductsListPassesFilters(t *testing.T) {
	svc := &stubProductService{}
	req := newRequest(http.MethodGet, "/api/products?search=arr&category=Gr%C3%A3os&barcode=789&limit=5", requestOpts{})
	rec := serve(ProductsList(svc, testLimits, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := products.ListFilters{Search: "arr", Category: "Grãos", Barcode: "789", Limit: 5}
	if svc.filters != want {
		t.Fatalf("unexpected filters %+v", svc.filters)
	}
}

func TestProductsListRejectsBadLimit(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/products?limit=1000", requestOpts{})
	rec := serve(ProductsList(&stubProductService{}, testLimits, testLogger()), req)
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestListLimitFollowsConfiguredMax(t *testing.T) {
	narrow := pagination.Limits{Default: 10, Max: 25}

	rec := serve(ProductsList(&stubProductService{}, narrow, testLogger()), newRequest(http.MethodGet, "/api/products?limit=50", requestOpts{}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = serve(PricesList(&stubPriceService{}, narrow, testLogger()), newRequest(http.MethodGet, "/api/prices?limit=26", requestOpts{}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	svc := &stubProductService{}
	rec = serve(ProductsList(svc, narrow, testLogger()), newRequest(http.MethodGet, "/api/products?limit=25", requestOpts{}))
	if rec.Code != http.StatusOK || svc.filters.Limit != 25 {
		t.Fatalf("expected limit 25 accepted, got %d with %+v", rec.Code, svc.filters)
	}
}

func TestProductGet(t *testing.T) {
	logg := testLogger()
	rec := serve(ProductGet(&stubProductService{}, logg), newRequest(http.MethodGet, "/api/products/x", requestOpts{params: map[string]string{"productId": "x"}}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	id := uuid.NewString()
	rec = serve(ProductGet(&stubProductService{}, logg), newRequest(http.MethodGet, "/api/products/"+id, requestOpts{params: map[string]string{"productId": id}}))
	expectErrorCode(t, rec, http.StatusNotFound, "NOT_FOUND")
}

func TestProductCreate(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	t.Run("requires session", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/api/products", requestOpts{body: `{"name":"Arroz"}`})
		rec := serve(ProductCreate(&stubProductService{}, logg), req)
		expectErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("missing name", func(t *testing.T) {
		req := newRequest(http.MethodPost, "/api/products", requestOpts{userID: userID, body: `{"barcode":"789"}`})
		rec := serve(ProductCreate(&stubProductService{}, logg), req)
		expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("duplicate barcode", func(t *testing.T) {
		svc := &stubProductService{createErr: pkgerrors.New(pkgerrors.CodeConflict, "a product with this barcode already exists")}
		req := newRequest(http.MethodPost, "/api/products", requestOpts{userID: userID, body: `{"name":"Arroz","barcode":"789"}`})
		rec := serve(ProductCreate(svc, logg), req)
		expectErrorCode(t, rec, http.StatusConflict, "CONFLICT")
	})

	t.Run("created", func(t *testing.T) {
		svc := &stubProductService{}
		req := newRequest(http.MethodPost, "/api/products", requestOpts{userID: userID, body: `{"name":"Arroz","barcode":"789"}`})
		rec := serve(ProductCreate(svc, logg), req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.created == nil || svc.created.Name != "Arroz" {
			t.Fatalf("service not invoked with body")
		}
	})
}

type stubSupermarketService struct {
	input supermarkets.ListInput
}

func (s *stubSupermarketService) List(ctx context.Context, input supermarkets.ListInput) ([]supermarkets.SupermarketDTO, error) {
	s.input = input
	return []supermarkets.SupermarketDTO{}, nil
}

func (s *stubSupermarketService) Get(ctx context.Context, id uuid.UUID) (*supermarkets.SupermarketDTO, error) {
	return &supermarkets.SupermarketDTO{ID: id, Name: "Mercado A"}, nil
}

func (s *stubSupermarketService) Create(ctx context.Context, req supermarkets.CreateSupermarketRequest) (*supermarkets.SupermarketDTO, error) {
	return &supermarkets.SupermarketDTO{ID: uuid.New(), Name: req.Name}, nil
}

func TestSupermarketsListOrigin(t *testing.T) {
	logg := testLogger()

	svc := &stubSupermarketService{}
	rec := serve(SupermarketsList(svc, logg), newRequest(http.MethodGet, "/api/supermarkets?lat=-23.5&lng=-46.6", requestOpts{}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.Origin == nil || *svc.input.Origin != (geo.Point{Lat: -23.5, Lng: -46.6}) {
		t.Fatalf("origin not forwarded: %+v", svc.input.Origin)
	}

	svc = &stubSupermarketService{}
	serve(SupermarketsList(svc, logg), newRequest(http.MethodGet, "/api/supermarkets", requestOpts{}))
	if svc.input.Origin != nil {
		t.Fatalf("expected no origin")
	}

	rec = serve(SupermarketsList(&stubSupermarketService{}, logg), newRequest(http.MethodGet, "/api/supermarkets?lat=10", requestOpts{}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestSupermarketCreateValidatesCoordinates(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()

	rec := serve(SupermarketCreate(&stubSupermarketService{}, logg), newRequest(http.MethodPost, "/api/supermarkets", requestOpts{userID: userID, body: `{"name":"Mercado A","latitude":91,"longitude":0}`}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	rec = serve(SupermarketCreate(&stubSupermarketService{}, logg), newRequest(http.MethodPost, "/api/supermarkets", requestOpts{userID: userID, body: `{"name":"Mercado A"}`}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

type stubPriceService struct {
	input   prices.ListInput
	userID  uuid.UUID
	request prices.CreatePriceRequest
}

func (s *stubPriceService) List(ctx context.Context, input prices.ListInput) (*prices.ListResult, error) {
	s.input = input
	return &prices.ListResult{Items: []prices.PriceEntryDTO{{Price: 19.9}}, NextCursor: "next"}, nil
}

func (s *stubPriceService) Create(ctx context.Context, userID uuid.UUID, req prices.CreatePriceRequest) (*prices.PriceEntryDTO, error) {
	s.userID = userID
	s.request = req
	return &prices.PriceEntryDTO{ID: uuid.New(), Price: req.Price.InexactFloat64()}, nil
}

func TestPricesList(t *testing.T) {
	svc := &stubPriceService{}
	productID := uuid.New()
	req := newRequest(http.MethodGet, "/api/prices?productId="+productID.String()+"&limit=10&cursor=abc", requestOpts{})
	rec := serve(PricesList(svc, testLimits, testLogger()), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.input.ProductID == nil || *svc.input.ProductID != productID || svc.input.SupermarketID != nil {
		t.Fatalf("unexpected filters %+v", svc.input)
	}
	if svc.input.Pagination.Limit != 10 || svc.input.Pagination.Cursor != "abc" {
		t.Fatalf("unexpected pagination %+v", svc.input.Pagination)
	}

	var page prices.ListResult
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Price != 19.9 || page.NextCursor != "next" {
		t.Fatalf("unexpected page %+v", page)
	}

	rec = serve(PricesList(svc, testLimits, testLogger()), newRequest(http.MethodGet, "/api/prices?supermarketId=nope", requestOpts{}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestPriceCreate(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	body := `{"supermarketId":"` + uuid.NewString() + `","productId":"` + uuid.NewString() + `","price":19.90}`

	rec := serve(PriceCreate(&stubPriceService{}, logg), newRequest(http.MethodPost, "/api/prices", requestOpts{body: body}))
	expectErrorCode(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")

	rec = serve(PriceCreate(&stubPriceService{}, logg), newRequest(http.MethodPost, "/api/prices", requestOpts{userID: userID, body: `{"price":19.90}`}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")

	svc := &stubPriceService{}
	rec = serve(PriceCreate(svc, logg), newRequest(http.MethodPost, "/api/prices", requestOpts{userID: userID, body: body}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.userID != userID || svc.request.Price.String() != "19.9" {
		t.Fatalf("unexpected create call user=%s price=%s", svc.userID, svc.request.Price)
	}
	if !strings.Contains(rec.Body.String(), `"price":19.9`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestPriceCreateDecodesCamelCaseBody(t *testing.T) {
	supermarketID, productID := uuid.New(), uuid.New()
	body := `{"supermarketId":"` + supermarketID.String() + `","productId":"` + productID.String() + `","price":19.90}`

	svc := &stubPriceService{}
	rec := serve(PriceCreate(svc, testLogger()), newRequest(http.MethodPost, "/api/prices", requestOpts{userID: uuid.New(), body: body}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.request.SupermarketID != supermarketID || svc.request.ProductID != productID {
		t.Fatalf("ids not decoded: %+v", svc.request)
	}

	snake := `{"supermarket_id":"` + supermarketID.String() + `","product_id":"` + productID.String() + `","price":19.90}`
	rec = serve(PriceCreate(&stubPriceService{}, testLogger()), newRequest(http.MethodPost, "/api/prices", requestOpts{userID: uuid.New(), body: snake}))
	expectErrorCode(t, rec, http.StatusBadRequest, "VALIDATION_ERROR")
}
