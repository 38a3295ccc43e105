package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Shared caches may serve a snapshot for 30s and revalidate in the
// background for another 60s; clients judge staleness via fetchedAt.
const yieldsCacheControl = "public, s-maxage=30, stale-while-revalidate=60"

// GetYields godoc
// @Summary      Get aggregated Solana yield opportunities
// @Description  Returns merged venue rates from all protocol sources, plus prices, borrow rates, and per-source availability flags
// @Tags         yields
// @Produce      json
// @Success      200  {object}  domain.AggregateResponse
// @Router       /api/yields [get]
func (h *Handler) GetYields(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-yields")
	defer span.End()

	resp := h.yieldService.GetYields(ctx)
	span.SetAttributes(attribute.Int("venues", len(resp.Venues)))

	c.Header("Cache-Control", yieldsCacheControl)
	c.JSON(http.StatusOK, resp)
}

// GetHistory godoc
// @Summary      Get historical rates for a venue
// @Description  Returns stored rate snapshots for one venue, newest first
// @Tags         yields
// @Produce      json
// @Param        venue  path   string  true   "Venue name (e.g., Kamino: Main Market)"
// @Param        limit  query  int     false  "Number of snapshots (default 100, max 1000)"  default(100)
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/history/{venue} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	venue := c.Param("venue")
	span.SetAttributes(attribute.String("venue", venue))

	limit := 100
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	snapshots, err := h.yieldService.GetHistory(ctx, venue, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venue":     venue,
		"snapshots": snapshots,
	})
}
