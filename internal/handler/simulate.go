package handler

import (
	"net/http"

	"yield-harbor/internal/model"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// SimulateRequest describes a carry trade to evaluate against live rates.
type SimulateRequest struct {
	Collateral  string  `json:"collateral" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	BorrowAsset string  `json:"borrowAsset" binding:"required"`
	DeployVenue string  `json:"deployVenue" binding:"required"`
	LtvPct      float64 `json:"ltvPct" binding:"required,gt=0"`
}

// SimulatePosition godoc
// @Summary      Simulate a structured carry position
// @Description  Evaluates posting collateral, borrowing against it at the given LTV, and deploying the proceeds into a venue
// @Tags         simulate
// @Accept       json
// @Produce      json
// @Param        request  body  SimulateRequest  true  "Position to evaluate"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/simulate [post]
func (h *Handler) SimulatePosition(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.simulate-position")
	defer span.End()

	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(
		attribute.String("collateral", req.Collateral),
		attribute.String("deploy_venue", req.DeployVenue),
	)

	live := h.yieldService.GetYields(ctx)
	assets := model.EnrichAssets(live)

	collateral, ok := model.FindAsset(assets, req.Collateral)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collateral asset: " + req.Collateral})
		return
	}
	if !collateral.CanCollateral {
		c.JSON(http.StatusBadRequest, gin.H{"error": req.Collateral + " cannot be used as collateral"})
		return
	}
	if req.LtvPct > collateral.MaxLTV*100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "LTV exceeds maximum for " + req.Collateral})
		return
	}

	deployVenue, ok := live.Venues[req.DeployVenue]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown deploy venue: " + req.DeployVenue})
		return
	}

	var borrowAsset *model.Asset
	if a, ok := model.FindAsset(assets, req.BorrowAsset); ok {
		borrowAsset = &a
	}

	input := model.PositionInput{
		Collateral:  collateral,
		Amount:      req.Amount,
		BorrowAsset: borrowAsset,
		DeployVenue: deployVenue,
		LtvPct:      req.LtvPct,
	}
	if market, ok := model.FindBestBorrowMarket(req.BorrowAsset, live.Venues); ok {
		input.BorrowMarket = &market
	}

	position := model.ComputeStructuredPosition(input)

	resp := gin.H{
		"position":  position,
		"fetchedAt": live.FetchedAt,
	}
	if input.BorrowMarket != nil {
		resp["borrowMarket"] = input.BorrowMarket
	}
	c.JSON(http.StatusOK, resp)
}
