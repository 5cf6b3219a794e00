package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HealthHandler reports the state of the database and the cache
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		resp := gin.H{"status": "ok", "database": "ok", "cache": "disabled"}
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			resp["status"], resp["database"] = "degraded", "unreachable"
		}
		// Caching is optional, so a Redis outage does not fail the check
		if rdb != nil {
			resp["cache"] = "ok"
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				resp["cache"] = "unreachable"
			}
		}
		c.JSON(status, resp)
	}
}
