package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rooted/analytics/internal/interfaces/http/dto"
)

const msgBodyTooLarge = "Request body too large"

// BodyLimit caps request bodies at maxBytes. A declared Content-Length over
// the cap is refused up front; other bodies fail on read and handlers report
// that through AbortIfTooLarge. maxBytes <= 0 disables the cap.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortTooLarge(c, maxBytes)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// AbortIfTooLarge answers 413 and returns true when err came from reading a
// body past the BodyLimit cap
func AbortIfTooLarge(c *gin.Context, err error) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	abortTooLarge(c, mbe.Limit)
	return true
}

func abortTooLarge(c *gin.Context, limit int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
		dto.NewErrorResponse(msgBodyTooLarge, "Limit is "+strconv.FormatInt(limit, 10)+" bytes"))
}
