package routes

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/guiamercado/guiamercado-backend/api/controllers"
	"github.com/guiamercado/guiamercado-backend/api/middleware"
	"github.com/guiamercado/guiamercado-backend/api/responses"
	"github.com/guiamercado/guiamercado-backend/internal/auth"
	"github.com/guiamercado/guiamercado-backend/internal/lists"
	"github.com/guiamercado/guiamercado-backend/internal/prices"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/auth/session"
	"github.com/guiamercado/guiamercado-backend/pkg/config"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/logger"
	"github.com/guiamercado/guiamercado-backend/pkg/metrics"
	pkgredis "github.com/guiamercado/guiamercado-backend/pkg/redis"
)

// RedisStore is the slice of the redis client the HTTP layer needs.
type RedisStore interface {
	controllers.Pinger
	pkgredis.IdempotencyStore
	middleware.WindowLimiter
}

// Dependencies bundles everything NewRouter wires. Nil services answer 500,
// a nil Redis disables rate limiting and idempotent replays.
type Dependencies struct {
	DB       controllers.Pinger
	Redis    RedisStore
	Sessions session.Checker

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth         auth.Service
	Products     products.Service
	Supermarkets supermarkets.Service
	Prices       prices.Service
	Lists        lists.Service
}

var routedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.NotFound(notFound(logg))
	r.MethodNotAllowed(methodNotAllowed(r, logg))

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(deps.HTTPMetrics),
	)

	limits := cfg.Pagination.Limits()
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	healthDeps := map[string]controllers.Pinger{}
	if deps.DB != nil {
		healthDeps["database"] = deps.DB
	}
	if deps.Redis != nil {
		healthDeps["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, healthDeps))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	requireSession := middleware.Auth(cfg.Session, deps.Sessions, logg)
	idempotent := middleware.Idempotency(deps.Redis, logg)
	cookie := controllers.NewSessionCookie(cfg)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(limiter, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).Post("/signup", controllers.AuthSignup(deps.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, cookie, logg))
			r.With(requireSession).Post("/logout", controllers.AuthLogout(deps.Auth, cookie, logg))
			r.With(requireSession).Get("/session", controllers.AuthSession(deps.Auth, logg))
		})

		// Catalog reads are public, contributions need a session.
		r.Get("/products", controllers.ProductsList(deps.Products, limits, logg))
		r.Get("/products/{productId}", controllers.ProductGet(deps.Products, logg))
		r.With(requireSession, idempotent).Post("/products", controllers.ProductCreate(deps.Products, logg))

		r.Get("/supermarkets", controllers.SupermarketsList(deps.Supermarkets, logg))
		r.Get("/supermarkets/{supermarketId}", controllers.SupermarketGet(deps.Supermarkets, logg))
		r.With(requireSession, idempotent).Post("/supermarkets", controllers.SupermarketCreate(deps.Supermarkets, logg))

		r.Get("/prices", controllers.PricesList(deps.Prices, limits, logg))
		r.With(requireSession, idempotent).Post("/prices", controllers.PriceCreate(deps.Prices, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireSession)

			r.Get("/lists", controllers.ListsIndex(deps.Lists, logg))
			r.With(idempotent).Post("/lists", controllers.ListsCreate(deps.Lists, logg))
			r.Get("/lists/recent", controllers.ListsRecentProducts(deps.Lists, logg))
			r.Get("/lists/{listId}", controllers.ListsGet(deps.Lists, logg))
			r.Put("/lists/{listId}", controllers.ListsUpdate(deps.Lists, logg))
			r.Delete("/lists/{listId}", controllers.ListsDelete(deps.Lists, logg))

			r.Get("/list", controllers.CurrentListGet(deps.Lists, logg))
			r.Post("/list", controllers.CurrentListAddItem(deps.Lists, logg))
			r.Put("/list", controllers.CurrentListSetChecked(deps.Lists, logg))
			r.Delete("/list", controllers.CurrentListRemoveItem(deps.Lists, logg))
		})
	})

	return r
}

func notFound(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	}
}

// methodNotAllowed tries the root router for every method the path does
// support and reports them in the Allow header.
func methodNotAllowed(root chi.Routes, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allowed := make([]string, 0, len(routedMethods))
		for _, method := range routedMethods {
			if root.Match(chi.NewRouteContext(), method, r.URL.Path) {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) > 0 {
			w.Header().Set("Allow", strings.Join(allowed, ", "))
		}
		err := pkgerrors.New(pkgerrors.CodeMethodNotAllowed, "method not allowed").
			WithDetails(map[string]any{"method": r.Method, "allowed": allowed})
		responses.WriteError(r.Context(), logg, w, err)
	}
}
