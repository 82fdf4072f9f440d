package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models/dto"
)

// HomeService serves the public pages
type HomeService interface {
	Home(ctx context.Context) *dto.HomeResponse
	SignupOptions() []dto.SignupOption
}

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HomeController serves the marketing home, the sign-up chooser and health checks
type HomeController struct {
	homeService HomeService
	database    HealthChecker
	logger      zerolog.Logger
}

// NewHomeController creates a new HomeController
func NewHomeController(homeService HomeService, database HealthChecker, logger zerolog.Logger) *HomeController {
	return &HomeController{homeService: homeService, database: database, logger: logger}
}

// Home returns the marketing page content
// @Summary Marketing home page
// @Description Static hero, features, steps and testimonials plus live platform counters
// @Tags public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HomeResponse}
// @Router /home [get]
func (c *HomeController) Home(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.homeService.Home(ctx.Request.Context())})
}

// SignupOptions lists the sign-up forms by role
// @Summary Sign-up chooser
// @Tags public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.SignupOption}
// @Router /signup/options [get]
func (c *HomeController) SignupOptions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: c.homeService.SignupOptions()})
}

// Health reports database reachability
// @Summary Health check
// @Tags public
// @Produce json
// @Success 200 {object} dto.APIResponse{data=map[string]string}
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HomeController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.database.Ping(pingCtx); err != nil {
		c.logger.Error().Err(err).Msg("Health check failed")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeServiceUnavailable, "Database unreachable")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: map[string]string{"status": "ok"}})
}
