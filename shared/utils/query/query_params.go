package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListParams represents pagination and filtering parameters for list endpoints
type ListParams struct {
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Filters map[string]string `json:"filters"`
}

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ParseListParams extracts standardized list parameters from Gin context.
// Filters use the filters[field_name]=value query format.
func ParseListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	filters := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if strings.HasPrefix(key, "filters[") && strings.HasSuffix(key, "]") {
			fieldName := key[8 : len(key)-1]
			if len(values) > 0 && values[0] != "" {
				filters[fieldName] = values[0]
			}
		}
	}

	return ListParams{Page: page, Limit: limit, Filters: filters}
}

// ApplyFilters applies whitelisted filters to a GORM query
func ApplyFilters(query *gorm.DB, filters map[string]string, allowedFields map[string]string) *gorm.DB {
	for field, value := range filters {
		if dbField, allowed := allowedFields[field]; allowed && value != "" {
			query = query.Where(fmt.Sprintf("%s = ?", dbField), value)
		}
	}
	return query
}

// ApplyPagination applies pagination to a GORM query
func ApplyPagination(query *gorm.DB, page, limit int) *gorm.DB {
	offset := (page - 1) * limit
	return query.Offset(offset).Limit(limit)
}

// BuildPaginationResponse creates pagination metadata
func BuildPaginationResponse(page, limit int, total int64) PaginationResponse {
	totalPages := (total + int64(limit) - 1) / int64(limit)

	return PaginationResponse{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < int(totalPages),
		HasPrev:    page > 1,
	}
}
