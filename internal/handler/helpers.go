package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// queryInt64 reads an optional int64 query parameter; ok is false when the
// parameter is present but malformed.
func queryInt64(c *gin.Context, name string, fallback int64) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// queryOptID reads an optional positive id query parameter as a pointer.
func queryOptID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
