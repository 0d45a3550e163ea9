package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/jetleads/internal/infra/http/handlers"
	appmiddleware "github.com/xavierca1/jetleads/internal/infra/http/middleware"
)

type routes struct {
	lead       *handlers.LeadHandler
	contact    *handlers.ContactHandler
	newsletter *handlers.NewsletterHandler
	variants   *handlers.VariantHandler
	health     *handlers.HealthHandler
}

func newRouter(h routes, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Visitor-ID"},
		MaxAge:         300,
	}))

	r.Post("/lead", h.lead.CaptureLead)
	r.Post("/contact", h.contact.Submit)
	r.Post("/newsletter", h.newsletter.Subscribe)
	r.Post("/newsletter/unsubscribe", h.newsletter.Unsubscribe)

	r.Get("/variants", h.variants.List)
	r.Get("/variants/{flagId}", h.variants.Get)

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
