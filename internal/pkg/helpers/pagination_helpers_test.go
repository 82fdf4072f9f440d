package helpers

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(2, 10, 25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = CalculateSliceIndices(3, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(9, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(math.MaxInt, MaxPageSize, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(27, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=0&size=500", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	page, info := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, int64(5), info.TotalItems)
	assert.Equal(t, 3, info.TotalPages)
}

func TestPaginate_HugePageIsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=4611686018427387905&size=10", nil)

	page, size := ParsePaginationParams(c)
	require.NotPanics(t, func() {
		items, info := Paginate([]int{1, 2, 3}, page, size)
		assert.Empty(t, items)
		assert.NotNil(t, items)
		assert.Equal(t, 1, info.CurrentPage)
	})
}
