package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	domain "kingjoe/internal/domain/inspection"
	"kingjoe/internal/usecase/inspection"
)

// LifecycleService is the part of the inspection usecase served over HTTP.
type LifecycleService interface {
	GetOrder(ctx context.Context, orderCode string) (*domain.Order, error)
	GetProductionOrder(ctx context.Context, orderCode string) (*domain.Order, error)
	CreateInspection(ctx context.Context, input inspection.CreateInspectionInput) (*domain.Order, error)
	DeleteInspection(ctx context.Context, orderCode string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, input inspection.UpdateStatusInput) (string, error)
}

type Options struct {
	Logger *slog.Logger
	Auth   AuthConfig
}

// NewRouter mounts the inspection endpoints. Everything under /producao
// needs a bearer token; /healthz does not.
func NewRouter(svc LifecycleService, opts Options) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestContext(opts.Logger))
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)

	r.Group(func(r chi.Router) {
		r.Use(bearerAuth(opts.Auth))

		r.Route("/producao", func(r chi.Router) {
			r.Post("/inspecoes/", h.createInspection)
			r.Get("/inspecoes/{order}/", h.getInspection)
			r.Delete("/inspecoes/{order}/", h.deleteInspection)
			r.Patch("/inspecoes/{order}/", h.updateStatus)
			r.Get("/ordens/{order}/", h.getProductionOrder)
		})
	})

	return r
}
