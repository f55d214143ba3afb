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

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{
		organizationService: os,
	}
}

// registerOrganizationRoutes registers routes related to organizations.
func registerOrganizationRoutes(rg *gin.RouterGroup, organizationService portssvc.OrganizationSvcFacade) {
	h := newOrganizationHandler(organizationService)

	organizations := rg.Group("/organizations")
	{
		organizations.POST("", h.createOrganization)
		organizations.GET("", h.listOrganizations)
		organizations.GET("/:organizationID", h.getOrganizationByID)
	}
}

// createOrganization registers a new tenant.
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create organization", slog.String("name", req.Name))

	organization, err := h.organizationService.CreateOrganization(c.Request.Context(), req, requesterID(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create organization in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		}
		return
	}

	logger.Info("Organization created successfully", slog.String("organization_id", organization.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(organization))
}

// listOrganizations returns every active organization.
func (h *organizationHandler) listOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	organizations, err := h.organizationService.ListOrganizations(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list organizations", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list organizations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationResponse(organizations))
}

// getOrganizationByID returns one organization.
func (h *organizationHandler) getOrganizationByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organizationID")

	organization, err := h.organizationService.GetOrganizationByID(c.Request.Context(), organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		} else {
			logger.Error("Failed to get organization", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organization"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(organization))
}
