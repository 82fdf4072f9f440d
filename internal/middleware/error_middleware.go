package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
	"github.com/yigit/tutorhub/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first sentinel err wraps wins
var errorMappings = []errorMapping{
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrInstitutionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Institution not found"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Status transition not allowed"},
	{apperrors.ErrSubmissionPending, http.StatusConflict, dto.ErrorCodeConflict, "A verification submission is already pending"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidStatus, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid status"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrDashboardUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, "Dashboard data could not be loaded"},
	{apperrors.ErrResourceUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeServiceUnavailable, "Resource unavailable"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	var partial *apperrors.PartialApprovalError
	if errors.As(err, &partial) {
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Institution decision partially applied")
		detail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Decision was only partially applied").
			WithSeverity(dto.ErrorSeverityCritical).
			WithDetails(dto.PartialFailureDetails{Completed: partial.Completed, Failed: partial.Failed})
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if field, ok := custom.Details["field"].(string); ok {
				detail.Field = field
			}
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}
