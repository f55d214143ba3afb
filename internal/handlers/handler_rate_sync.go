package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/LesterCerioli/lts_accounting_app/internal/apperrors"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/dto"
	"github.com/LesterCerioli/lts_accounting_app/internal/middleware"
	"github.com/LesterCerioli/lts_accounting_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// rateSyncHandler handles HTTP requests controlling rate synchronization.
type rateSyncHandler struct {
	rateSyncService portssvc.RateSyncSvcFacade
}

// newRateSyncHandler creates a new rateSyncHandler.
func newRateSyncHandler(rss portssvc.RateSyncSvcFacade) *rateSyncHandler {
	return &rateSyncHandler{
		rateSyncService: rss,
	}
}

// registerRateSyncRoutes registers the sync trigger and status routes. The
// trigger route is rate limited: each trigger fans out to every organization
// and hits the external quote source.
func registerRateSyncRoutes(rg *gin.RouterGroup, cfg *config.Config, rateSyncService portssvc.RateSyncSvcFacade) {
	h := newRateSyncHandler(rateSyncService)

	sync := rg.Group("/rate-sync")
	{
		sync.GET("/status", h.getSyncStatus)

		if limitMiddleware, err := newSyncTriggerLimiter(cfg.SyncTriggerRateLimit); err == nil {
			sync.POST("/run", limitMiddleware, h.triggerSync)
		} else {
			slog.Warn("Invalid sync trigger rate limit, endpoint left unprotected",
				slog.String("value", cfg.SyncTriggerRateLimit),
				slog.String("error", err.Error()))
			sync.POST("/run", h.triggerSync)
		}
	}
}

// triggerSync runs one synchronization pass immediately. An organizationID
// query parameter narrows the pass to one tenant.
func (h *rateSyncHandler) triggerSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Query("organizationID")

	logger.Info("Received request to trigger rate sync", slog.String("organization_id", organizationID))

	run, err := h.rateSyncService.RunOnce(c.Request.Context(), organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncInProgress) {
			logger.Warn("Sync trigger rejected, a pass is already running")
			c.JSON(http.StatusConflict, gin.H{"error": "A synchronization pass is already running"})
		} else if errors.Is(err, apperrors.ErrQuoteUnavailable) {
			logger.Error("Sync aborted, quote source unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Quote source is unavailable and no cached quote exists"})
		} else if errors.Is(err, apperrors.ErrMalformedQuote) {
			logger.Error("Sync aborted, quote rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Quote source returned an unusable quote"})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			logger.Error("Sync pass failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Synchronization pass failed"})
		}
		return
	}

	logger.Info("Sync pass finished",
		slog.Int("synced", run.SyncedCount),
		slog.Int("skipped", run.SkippedCount),
		slog.Int("failed", run.FailedCount))
	c.JSON(http.StatusOK, dto.ToSyncRunResponse(run))
}

// getSyncStatus reports scheduler arming and quote cache freshness.
func (h *rateSyncHandler) getSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.rateSyncService.Status())
}
