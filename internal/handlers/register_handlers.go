package handlers

import (
	"github.com/LesterCerioli/lts_accounting_app/internal/core/domain"
	portssvc "github.com/LesterCerioli/lts_accounting_app/internal/core/ports/services"
	"github.com/LesterCerioli/lts_accounting_app/internal/middleware"
	"github.com/LesterCerioli/lts_accounting_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerCurrencyRoutes(v1, services.Currency)
	registerOrganizationRoutes(v1, services.Organization)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
	registerCostRoutes(v1, services.CostConversion)
	registerRateSyncRoutes(v1, cfg, services.RateSync)
}

// registerCustomValidators adds the domain validation tags referenced by DTO
// binding annotations.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return domain.IsValidYearMonth(fl.Field().String())
	})
}

// requesterID identifies who made the request for audit columns. There is no
// authentication layer; callers may self-identify through the X-User-ID
// header and everything else is attributed to "system".
func requesterID(c *gin.Context) string {
	if id := c.GetHeader("X-User-ID"); id != "" {
		return id
	}
	return "system"
}

// newSyncTriggerLimiter builds the in-memory rate limiter protecting the
// manual sync trigger endpoint.
func newSyncTriggerLimiter(formatted string) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	store := memory.NewStore()
	return middleware.RateLimit(limiter.New(store, rate)), nil
}
