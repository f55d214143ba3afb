package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/LesterCerioli/lts_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// costHandler handles HTTP requests related to cost records.
type costHandler struct {
	costService portssvc.CostConversionSvcFacade
}

// newCostHandler creates a new costHandler.
func newCostHandler(cs portssvc.CostConversionSvcFacade) *costHandler {
	return &costHandler{
		costService: cs,
	}
}

// registerCostRoutes registers routes related to cost records.
func registerCostRoutes(rg *gin.RouterGroup, costService portssvc.CostConversionSvcFacade) {
	h := newCostHandler(costService)

	costs := rg.Group("/organizations/:organizationID/costs")
	{
		costs.POST("", h.createCost)
		costs.POST("/reconcile", h.reconcileCosts)
	}
}

// createCost persists a new cost with its reporting-currency conversion
// resolved where possible.
func (h *costHandler) createCost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	var req dto.CreateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID))
	logger.Info("Received request to create cost",
		slog.String("currency", req.CurrencyCode),
		slog.Any("amount", req.Amount))

	cost, err := h.costService.CreateCost(c.Request.Context(), organizationID, req, requesterID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating cost", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create cost in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cost"})
		}
		return
	}

	logger.Info("Cost created successfully",
		slog.String("cost_id", cost.CostID),
		slog.Bool("pending_conversion", cost.NeedsConversion()))
	c.JSON(http.StatusCreated, dto.ToCostResponse(cost))
}

// reconcileCosts re-resolves every cost of the organization still missing a
// conversion.
func (h *costHandler) reconcileCosts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	result, err := h.costService.ReconcileMissingRates(c.Request.Context(), organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			logger.Error("Reconciliation failed", slog.String("error", err.Error()), slog.String("organization_id", organizationID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
