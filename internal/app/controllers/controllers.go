// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tutorhub/internal/app/models/dto"
	"github.com/yigit/tutorhub/internal/app/services"
	"github.com/yigit/tutorhub/internal/middleware"
	"github.com/yigit/tutorhub/internal/pkg/helpers"
)

// currentUser returns the authenticated caller. It writes a 401 when the
// route was mounted without JWTAuth.
func currentUser(ctx *gin.Context) (int64, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}

// respondTab writes a dashboard tab. Items are paged only when page or size is given.
func respondTab[T any](ctx *gin.Context, tab services.Tab[T]) {
	resp := dto.InstitutionListResponse{Items: tab.Items, Failed: tab.Failed}
	if helpers.HasPaginationParams(ctx) {
		page, size := helpers.ParsePaginationParams(ctx)
		items, info := helpers.Paginate(tab.Items, page, size)
		resp.Items = items
		resp.Pagination = &info
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// readUpload takes the "file" part of a multipart form
func readUpload(ctx *gin.Context) (services.FileUpload, func(), bool) {
	header, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return services.FileUpload{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "File could not be read").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return services.FileUpload{}, nil, false
	}
	upload := services.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}
	return upload, func() { _ = f.Close() }, true
}
