package models

type ApiResponse struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	Data       any       `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
	Pagination *PageInfo `json:"pagination,omitempty"`
}

// PageInfo describes the window returned by a paginated listing.
type PageInfo struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

func SuccessResponse(data any, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func PaginatedResponse(data any, page, pageSize, total int) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Pagination: &PageInfo{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	}
}
