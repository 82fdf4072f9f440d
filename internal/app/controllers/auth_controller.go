package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/app/models"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/middleware"
)

// AuthService is what the auth endpoints need from the service layer
type AuthService interface {
	RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*dto.AuthResponse, error)
	RegisterTutor(ctx context.Context, req *dto.RegisterTutorRequest) (*dto.AuthResponse, error)
	RegisterInstitution(ctx context.Context, req *dto.RegisterInstitutionRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*dto.UserResponse, error)
}

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles role-specific sign-up
// @Summary Register a new account
// @Description Creates a student, tutor or institution account. Students are approved immediately; tutors and institutions start pending review.
// @Tags auth
// @Accept json
// @Produce json
// @Param role path string true "Account role" Enums(student, tutor, institution)
// @Param request body dto.RegisterTutorRequest true "Sign-up form. Fields depend on the role."
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse} "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or unknown role"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register/{role} [post]
func (c *AuthController) Register(ctx *gin.Context) {
	role := models.Role(ctx.Param("role"))

	var (
		resp *dto.AuthResponse
		err  error
	)
	switch role {
	case models.RoleStudent:
		var req dto.RegisterStudentRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}
		resp, err = c.authService.RegisterStudent(ctx.Request.Context(), &req)
	case models.RoleTutor:
		var req dto.RegisterTutorRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}
		resp, err = c.authService.RegisterTutor(ctx.Request.Context(), &req)
	case models.RoleInstitution:
		var req dto.RegisterInstitutionRequest
		if !middleware.BindJSON(ctx, &req) {
			return
		}
		resp, err = c.authService.RegisterInstitution(ctx.Request.Context(), &req)
	default:
		c.logger.Warn().Str("role", string(role)).Msg("Registration attempted with invalid role")
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRole, "Invalid role").
			WithDetails("Role must be one of student, tutor or institution")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err != nil {
		c.logger.Warn().Err(err).Str("role", string(role)).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: resp})
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns an access and refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format or validation error"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// RefreshToken handles refresh token request
// @Summary Refresh access token
// @Description Rotates a refresh token and issues a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse} "Token refreshed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Refresh token failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Logout revokes a refresh token
// @Summary Logout
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LogoutRequest true "Refresh token to revoke"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req dto.LogoutRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.SuccessResponse{Message: "Logged out"}})
}

// Me returns the authenticated account
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, err := c.authService.Me(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: user})
}
