package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
)

// RawBodyKey is the gin context key holding the buffered request body.
const RawBodyKey = "rawRequestBody"

// BodyCapture buffers the request body and hands the handler a fresh
// reader, so the log pipeline can persist the body after binding has
// consumed it. Multipart uploads are left untouched; their payload is a
// file, not a loggable document.
func BodyCapture() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			raw, err := io.ReadAll(c.Request.Body)
			if err == nil {
				c.Set(RawBodyKey, raw)
				c.Request.Body = io.NopCloser(bytes.NewReader(raw))
			}
		}
		c.Next()
	}
}
