package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/LesterCerioli/lts_accounting_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(ers portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		exchangeRateService: ers,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
// Rates are tenant-scoped, so every route lives under the organization.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(exchangeRateService)

	exchangeRates := rg.Group("/organizations/:organizationID/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/resolve", h.resolveRate)
		exchangeRates.GET("/latest/:base/:target", h.getLatestRate)
	}
}

// createExchangeRate adds a manually entered rate for one period.
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("organization_id", organizationID))
	logger.Info("Received request to create exchange rate",
		slog.String("year_month", req.YearMonth),
		slog.String("base", req.BaseCurrencyCode),
		slog.String("target", req.TargetCurrencyCode),
		slog.Any("rate", req.Rate),
	)

	createdRate, err := h.exchangeRateService.CreateExchangeRate(c.Request.Context(), organizationID, req, requesterID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Exchange rate already exists for period")
			c.JSON(http.StatusConflict, gin.H{"error": "An exchange rate already exists for this organization, period and currency pair"})
		} else {
			logger.Error("Failed to create exchange rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate created successfully", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// listExchangeRates returns a filtered, paginated rate listing.
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	var req dto.ListExchangeRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		logger.Warn("Failed to bind query for ListExchangeRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rates, total, err := h.exchangeRateService.ListExchangeRates(c.Request.Context(), organizationID, req)
	if err != nil {
		logger.Error("Failed to list exchange rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRatesResponse(rates, total, req.Page, req.PageSize))
}

// resolveRate runs the resolution cascade for a period and/or date supplied
// as query parameters.
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	base := c.Query("base")
	target := c.Query("target")
	yearMonth := c.Query("yearMonth")
	var date time.Time
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in format YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	rate, err := h.exchangeRateService.ResolveRate(c.Request.Context(), organizationID, base, target, yearMonth, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No exchange rate matches the requested period or date"})
		} else {
			logger.Error("Failed to resolve exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// getLatestRate returns the most recent rate for a currency pair.
func (h *exchangeRateHandler) getLatestRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")
	base := c.Param("base")
	target := c.Param("target")

	if len(base) != 3 || len(target) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	rate, err := h.exchangeRateService.GetLatestRate(c.Request.Context(), organizationID, base, target)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		} else {
			logger.Error("Failed to get latest exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}
