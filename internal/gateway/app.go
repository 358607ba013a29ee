package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/graph"
	"Storefront/internal/order"
	"Storefront/internal/session"
	"Storefront/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets those headers.
	TrustProxy bool

	// RateLimit applies to mutating cart, order and GraphQL requests.
	// Max 0 disables it.
	RateLimit RateLimit
	CORS      kit.CORSConfig
}

type RateLimit struct {
	Max    int
	Window time.Duration
}

// Deps are the storefront components served by the handler. A nil Session
// serves every request from the shared cart.
type Deps struct {
	Catalog *catalog.Catalog
	Source  catalog.Source
	Carts   cart.Registry
	Orders  *order.Service
	Session *session.TokenMaker
}

const readyTimeout = 2 * time.Second

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	if deps.Catalog == nil || deps.Carts == nil || deps.Orders == nil {
		return nil, errors.New("gateway: catalog, carts and orders are required")
	}
	log := httpDeps.Log
	if log == nil {
		log = zap.NewNop()
	}

	schema, err := graph.NewSchema(&graph.Resolver{
		Catalog: deps.Catalog,
		Carts:   deps.Carts,
		Orders:  deps.Orders,
	})
	if err != nil {
		return nil, err
	}

	products := &catalog.Server{Catalog: deps.Catalog, Log: log}
	carts := &cart.Server{Carts: deps.Carts, Log: log}
	orders := &order.Server{Orders: deps.Orders, Log: log}

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps, deps.Session != nil)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps.Source, log))

	r.Mount("/products", products.Routes())

	limiter := kit.NewIPRateLimiter(httpDeps.RateLimit.Max, httpDeps.RateLimit.Window)

	r.Group(func(sr chi.Router) {
		if deps.Session != nil {
			sr.Use(session.Middleware(deps.Session, log))
		}
		sr.Use(mutating(limiter.Middleware))

		sr.Mount("/cart", carts.Routes())
		sr.Mount("/orders", orders.Routes())
		sr.Handle("/graphql", graph.NewHandler(schema, log))
	})

	return r, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps, sessions bool) {
	r.Use(chimw.RequestID)
	if deps.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	cors := deps.CORS
	if sessions {
		cors.AllowHeaders = appendMissing(cors.AllowHeaders, session.Header)
		cors.ExposeHeaders = appendMissing(cors.ExposeHeaders, session.Header)
	}
	cors.AllowHeaders = appendMissing(cors.AllowHeaders, "Content-Type")
	cors.ExposeHeaders = appendMissing(cors.ExposeHeaders, chimw.RequestIDHeader)
	r.Use(kit.CORS(cors))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

// mutating applies mw to every request except safe methods.
func mutating(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}

func appendMissing(list []string, v string) []string {
	for _, s := range list {
		if http.CanonicalHeaderKey(s) == http.CanonicalHeaderKey(v) {
			return list
		}
	}
	return append(list, v)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(src catalog.Source, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		if err := src.Ping(ctx); err != nil {
			log.Warn("readyz failed: catalog source", zap.Error(err))
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog not ready", nil)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
