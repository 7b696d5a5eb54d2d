package common

import (
	"github.com/gin-gonic/gin"
)

// includeErrorDetail controls whether raw error strings are attached to
// failure envelopes. Disabled in production deployments at boot.
var includeErrorDetail = true

// SetProductionMode suppresses error detail payloads in responses
func SetProductionMode(prod bool) {
	includeErrorDetail = !prod
}

// WriteResult is the envelope returned by create/update endpoints
type WriteResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	NewsID           int64  `json:"news_id"`
	Slug             string `json:"slug"`
	Status           string `json:"status"`
	RequiresApproval bool   `json:"requires_approval"`
}

// Pagination is the metadata block on paginated responses
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewPagination computes the pagination block for a page of a result set
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) > 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNext:     int64(page) < totalPages,
		HasPrev:     page > 1,
	}
}

// WriteSuccess sends a write envelope with the given HTTP status
func WriteSuccess(c *gin.Context, httpStatus int, message string, result WriteResult) {
	result.Success = true
	result.Message = message
	c.JSON(httpStatus, result)
}

// Fail sends a {success:false, message} envelope. The raw error string is
// attached only outside production.
func Fail(c *gin.Context, httpStatus int, message string, err error) {
	body := gin.H{
		"success": false,
		"message": message,
	}
	if err != nil && includeErrorDetail {
		body["error"] = err.Error()
	}
	c.JSON(httpStatus, body)
}
