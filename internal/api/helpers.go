package api

import (
	"context"                           // Context for Redis operations
	"errors"                            // Error comparison
	"net/http"                          // HTTP status codes
	"smart_condominium/internal/domain" // Date layout
	"smart_condominium/internal/utils"  // Utility functions
	"strconv"                           // String conversion
	"time"                              // Date filters

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// parseID reads a numeric path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// findOr404 loads the row with the given primary key into dest, writing a 404 or 500 on failure
func findOr404(c *gin.Context, query *gorm.DB, dest any, id uint, what string) bool {
	err := query.WithContext(c.Request.Context()).First(dest, id).Error
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return false
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + what})
	return false
}

// saveError maps a failed write to a response. Unique violations are client errors.
func saveError(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": what + " already exists"})
		return
	}
	logrus.WithFields(logrus.Fields{
		"path":  c.FullPath(), // Route being served
		"error": err.Error(),  // Error message
	}).Error("Failed to save " + what)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save " + what})
}

// paginate counts and fetches one page of query and builds the list envelope.
// Associations in preloads are loaded for the page only.
func paginate[T any](c *gin.Context, query *gorm.DB, what string, preloads ...string) (gin.H, bool) {
	page := utils.ParsePage(c) // Page and page size from the query string
	query = query.WithContext(c.Request.Context())
	var total int64 // Total row count
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count " + what})
		return nil, false
	}
	find := query.Offset(page.Offset()).Limit(page.PageSize)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	items := make([]T, 0, page.PageSize) // Never serialize a null list
	if err := find.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch " + what})
		return nil, false
	}
	return gin.H{
		"items":       items,                  // Rows of the page
		"page":        page.Page,              // Current page
		"page_size":   page.PageSize,          // Page size
		"total":       total,                  // Total number of rows
		"total_pages": page.TotalPages(total), // Total pages
	}, true
}

// cachedList serves a paginated list through Redis. Keys are prefix + page parameters.
func cachedList[T any](c *gin.Context, rdb *redis.Client, prefix string, query *gorm.DB, what string, preloads ...string) {
	ctx := c.Request.Context()
	cacheKey := prefix + "page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", strconv.Itoa(utils.DefaultPageSize))
	var cached gin.H // Cached response envelope
	// If cached data found, return it
	if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
		cached["cached"] = true // Indicate response is from cache
		c.JSON(http.StatusOK, cached)
		return
	}
	resp, ok := paginate[T](c, query, what, preloads...)
	if !ok {
		return
	}
	// Cache the response for future requests
	_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
	resp["cached"] = false // Indicate response is not from cache
	c.JSON(http.StatusOK, resp)
}

// invalidate drops every cached page under prefix
func invalidate(ctx context.Context, rdb *redis.Client, prefix string) {
	if err := utils.DeleteCachePrefix(ctx, rdb, prefix); err != nil {
		logrus.WithFields(logrus.Fields{
			"prefix": prefix,      // Cache key prefix
			"error":  err.Error(), // Error message
		}).Warn("Failed to invalidate cache")
	}
}

// dateRange applies the start_date and end_date query parameters (YYYY-MM-DD, both
// inclusive) to a timestamp column, writing a 400 for malformed dates
func dateRange(c *gin.Context, query *gorm.DB, column string) (*gorm.DB, bool) {
	if start := c.Query("start_date"); start != "" {
		from, err := time.Parse(domain.DateLayout, start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where(column+" >= ?", from) // From the start of that day
	}
	if end := c.Query("end_date"); end != "" {
		to, err := time.Parse(domain.DateLayout, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
			return nil, false
		}
		query = query.Where(column+" < ?", to.AddDate(0, 0, 1)) // Inclusive end day
	}
	return query, true
}
