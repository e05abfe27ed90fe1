package responses

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SuccessResponse wraps every 2xx body.
type SuccessResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorResponse wraps every error body. Errors carries per-field messages
// when the request was rejected by validation.
type ErrorResponse struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Code    int                 `json:"code"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// PaginatedResponse is a SuccessResponse with paging details.
type PaginatedResponse struct {
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	PageSize     int   `json:"page_size"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
	NextPage     *int  `json:"next_page,omitempty"`
	PreviousPage *int  `json:"previous_page,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, message string, data any) {
	if message == "" {
		message = "Operation completed successfully"
	}
	c.JSON(statusCode, SuccessResponse{Status: "success", Message: message, Data: data})
}

// SendError aborts the request. 5xx responses are reported as "fail".
func SendError(c *gin.Context, statusCode int, message string) {
	sendError(c, statusCode, message, nil)
}

// SendFieldErrors aborts the request with per-field messages.
func SendFieldErrors(c *gin.Context, statusCode int, message string, fields map[string][]string) {
	sendError(c, statusCode, message, fields)
}

func sendError(c *gin.Context, statusCode int, message string, fields map[string][]string) {
	status := "error"
	if statusCode >= http.StatusInternalServerError {
		status = "fail"
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Status:  status,
		Message: message,
		Code:    statusCode,
		Errors:  fields,
	})
}

// NewPagination computes paging details for one page of totalItems.
func NewPagination(totalItems int64, currentPage, pageSize int) Pagination {
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := int(math.Ceil(float64(totalItems) / float64(pageSize)))

	p := Pagination{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		HasNextPage: currentPage < totalPages,
		HasPrevPage: currentPage > 1,
	}
	if p.HasNextPage {
		next := currentPage + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := currentPage - 1
		p.PreviousPage = &prev
	}
	return p
}

func SendPaginated(c *gin.Context, message string, data any, totalItems int64, currentPage, pageSize int) {
	if message == "" {
		message = "Data retrieved successfully"
	}
	c.JSON(http.StatusOK, PaginatedResponse{
		Status:     "success",
		Message:    message,
		Data:       data,
		Pagination: NewPagination(totalItems, currentPage, pageSize),
	})
}

func NotFound(c *gin.Context, resourceName string) {
	SendError(c, http.StatusNotFound, resourceName+" not found")
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized access"
	}
	SendError(c, http.StatusUnauthorized, message)
}

func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request payload or parameters"
	}
	SendError(c, http.StatusBadRequest, message)
}

func InternalServerError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, "An unexpected error occurred on the server")
}
