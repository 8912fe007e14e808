package middleware

import (
	"errors"
	"net/http"

	"github.com/erp/contable/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const bodyTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit caps request bodies at maxBytes; zero or less disables it.
// A declared Content-Length over the cap is rejected up front. Chunked
// bodies fail on read, which BodyTooLarge lets handlers recognise.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, dto.ErrCodeRequestTooLarge, bodyTooLargeMessage)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// BodyTooLarge reports whether err came from reading past the BodyLimit cap
func BodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// AbortBodyTooLarge writes the 413 envelope used by BodyLimit
func AbortBodyTooLarge(c *gin.Context) {
	abortWithError(c, dto.ErrCodeRequestTooLarge, bodyTooLargeMessage)
}
