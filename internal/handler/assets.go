package handler

import (
	"net/http"

	"yield-harbor/internal/model"

	"github.com/gin-gonic/gin"
)

// GetAssets godoc
// @Summary      Get the collateral asset table
// @Description  Returns all tracked assets with risk parameters, enriched with live prices, earn APYs, and borrow rates
// @Tags         assets
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/assets [get]
func (h *Handler) GetAssets(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-assets")
	defer span.End()

	live := h.yieldService.GetYields(ctx)
	assets := model.EnrichAssets(live)

	c.Header("Cache-Control", yieldsCacheControl)
	c.JSON(http.StatusOK, gin.H{
		"assets":    assets,
		"fetchedAt": live.FetchedAt,
	})
}
