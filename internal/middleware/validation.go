package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tutorhub/internal/app/models/dto"
)

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 with the field errors and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}

// PathID parses a positive integer path parameter. On failure it writes a 400 and returns false.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := parsePositiveInt(c.Param(name))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+name).WithField(name)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

func parsePositiveInt(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("must be positive")
	}
	return id, nil
}
