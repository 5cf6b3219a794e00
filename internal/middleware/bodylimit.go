package middleware

import (
	"errors"   // Error comparison
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// BodyLimit rejects request bodies larger than maxBytes. Declared lengths are checked up
// front; chunked bodies are cut off while reading.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes) // Wrap the body with a limited reader
		c.Next()
	}
}

// IsBodyTooLarge reports whether a bind failed because BodyLimit cut the body off
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
