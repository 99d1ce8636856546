package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-engine/internal/infra/http/handlers"
	"github.com/xavierca1/lead-engine/internal/infra/http/middleware"
)

type routerDeps struct {
	Leads          *handlers.LeadHandler
	Dashboard      *handlers.DashboardHandler
	Health         *handlers.HealthHandler
	DetailLimiter  *handlers.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         int((12 * time.Hour).Seconds()),
	}))

	r.Get("/health", d.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/upload", d.Leads.Upload)
			r.Get("/", d.Leads.List)
			r.Delete("/", d.Leads.Clear)
			r.With(d.DetailLimiter.Middleware).Get("/{id}", d.Leads.Detail)
		})
		r.Get("/dashboard", d.Dashboard.Handle)
	})

	return r
}
