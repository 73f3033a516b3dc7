package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guiamercado/guiamercado-backend/internal/products"
	pkgAuth "github.com/guiamercado/guiamercado-backend/pkg/auth"
	"github.com/guiamercado/guiamercado-backend/pkg/config"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
	"github.com/guiamercado/guiamercado-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubProductService struct{}

func (stubProductService) List(ctx context.Context, filters products.ListFilters) ([]products.ProductDTO, error) {
	return []products.ProductDTO{{ID: uuid.New(), Name: "Arroz"}}, nil
}

func (stubProductService) Get(ctx context.Context, id uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: id, Name: "Arroz"}, nil
}

func (stubProductService) Create(ctx context.Context, req products.CreateProductRequest) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: uuid.New(), Name: req.Name}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		Session: config.SessionConfig{
			Secret:     "router-secret",
			Issuer:     "guiamercado",
			TTL:        time.Hour,
			CookieName: "gm_session",
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(cfg *config.Config, deps Dependencies) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, deps)
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintSessionToken(cfg.Session, time.Now(), pkgAuth.SessionTokenPayload{
		UserID:    uuid.New(),
		Name:      "Ana",
		SessionID: "sid-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), Dependencies{DB: stubPinger{}})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogReadsArePublic(t *testing.T) {
	router := newTestRouter(testConfig(), Dependencies{Products: stubProductService{}})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/products?search=arr", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestMutationsRequireSession(t *testing.T) {
	router := newTestRouter(testConfig(), Dependencies{Products: stubProductService{}})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Arroz"}`)))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestListsRequireSession(t *testing.T) {
	router := newTestRouter(testConfig(), Dependencies{})
	for _, path := range []string{"/api/lists", "/api/lists/recent", "/api/list"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestCreateProductWithSession(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, Dependencies{Products: stubProductService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":"Arroz"}`))
	req.AddCookie(&http.Cookie{Name: "gm_session", Value: buildToken(t, cfg)})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUnsupportedMethodListsAllowed(t *testing.T) {
	router := newTestRouter(testConfig(), Dependencies{})

	cases := []struct {
		method string
		path   string
		allow  string
	}{
		{method: http.MethodPatch, path: "/api/products", allow: "GET, POST"},
		{method: http.MethodPost, path: "/api/prices/x", allow: ""},
		{method: http.MethodPatch, path: "/api/lists/" + uuid.NewString(), allow: "GET, PUT, DELETE"},
		{method: http.MethodPatch, path: "/api/list", allow: "GET, POST, PUT, DELETE"},
		{method: http.MethodDelete, path: "/api/auth/session", allow: "GET"},
	}
	for _, tc := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if tc.allow == "" {
			if resp.Code != http.StatusNotFound {
				t.Fatalf("%s %s: expected 404 got %d", tc.method, tc.path, resp.Code)
			}
			continue
		}
		if resp.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405 got %d", tc.method, tc.path, resp.Code)
		}
		if got := resp.Header().Get("Allow"); got != tc.allow {
			t.Fatalf("%s %s: expected Allow %q got %q", tc.method, tc.path, tc.allow, got)
		}
		if !strings.Contains(resp.Body.String(), "METHOD_NOT_ALLOWED") {
			t.Fatalf("expected error envelope, got %s", resp.Body.String())
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	router := newTestRouter(testConfig(), Dependencies{
		Products:    stubProductService{},
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
		Gatherer:    reg,
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `route="/api/products"`) {
		t.Fatalf("expected route label in metrics output: %s", resp.Body.String())
	}
}
