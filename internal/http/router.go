package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/rogerio-castellano/inventory-api/docs"
	"github.com/rogerio-castellano/inventory-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/inventory-api/internal/http/rate_limiter"
)

// RouterOptions configures NewRouter. The zero value serves the product
// routes at the root with no rate limit, no swagger UI and no health checks.
type RouterOptions struct {
	BasePath           string
	Swagger            bool
	CORSAllowedOrigins []string
	Limiter            *rl.Limiter
	HealthChecks       map[string]handlers.HealthChecker
	Logger             *slog.Logger
}

func NewRouter(srv *handlers.Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(logger),
		Recoverer(logger),
		metrics.Middleware,
	)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", srv.HealthHandler(opts.HealthChecks))
	r.Handle(MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	if opts.Swagger {
		docs.SwaggerInfo.BasePath = "/"
		if opts.BasePath != "" {
			docs.SwaggerInfo.BasePath = opts.BasePath
		}
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	products := func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.Route("/product", func(r chi.Router) {
			pk := "/{" + handlers.ProductIDParam + ":[0-9]+}"

			r.Get("/", srv.GetProductsHandler)
			r.Post("/insert", srv.CreateProductHandler)
			r.Get(pk, srv.GetProductByIDHandler)
			r.Put(pk, srv.UpdateProductHandler)
			r.Delete(pk, srv.DeleteProductHandler)
		})
	}

	if opts.BasePath == "" {
		r.Group(products)
	} else {
		r.Route(opts.BasePath, products)
	}

	return r
}
