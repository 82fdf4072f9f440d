package dto

// APIResponse is the envelope for every JSON response
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes one page of a list
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	TotalPages  int   `json:"totalPages" example:"3"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"27"`
}

// UploadResponse is returned after a file is stored
type UploadResponse struct {
	FileID int64  `json:"fileId" example:"12"`
	URL    string `json:"url" example:"http://localhost:8080/uploads/syllabi/3f1c.pdf"`
}
