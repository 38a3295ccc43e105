package handler

import (
	"context"

	"yield-harbor/internal/domain"
	"yield-harbor/internal/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// YieldProvider is what the HTTP layer needs from the yield service.
type YieldProvider interface {
	GetYields(ctx context.Context) *domain.AggregateResponse
	GetHistory(ctx context.Context, venue string, limit int) ([]repository.VenueRateSnapshot, error)
}

type Handler struct {
	tracer       trace.Tracer
	yieldService YieldProvider
	apiKey       string
}

func New(tracer trace.Tracer, yieldService YieldProvider, apiKey string) *Handler {
	return &Handler{
		tracer:       tracer,
		yieldService: yieldService,
		apiKey:       apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/yields", h.GetYields)
	r.GET("/api/assets", h.GetAssets)
	r.GET("/api/history/:venue", h.GetHistory)

	protected := r.Group("/api", APIKeyAuth(h.apiKey))
	protected.POST("/simulate", h.SimulatePosition)
}
