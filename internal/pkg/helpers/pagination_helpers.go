package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/tutorhub/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	} else if page == 1 {
		totalPages = 1
	}

	currentPage := page
	if totalPages > 0 && currentPage > totalPages {
		currentPage = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}

	return page, size
}

// HasPaginationParams reports whether the request asked for a page
func HasPaginationParams(c *gin.Context) bool {
	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("size")
	return hasPage || hasSize
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = DefaultPage
	}

	// past the last page; also keeps (page-1)*size from overflowing
	if page-1 > totalItems/size {
		return totalItems, totalItems
	}

	start = (page - 1) * size
	end = start + size

	if start >= totalItems {
		return totalItems, totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

// Paginate slices an already loaded collection. The returned page is never nil.
func Paginate[T any](items []T, page, size int) ([]T, dto.PaginationInfo) {
	start, end := CalculateSliceIndices(page, size, len(items))
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)
	return out, NewPaginationInfo(int64(len(items)), page, size)
}
