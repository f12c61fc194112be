package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestBodyCapture(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured []byte
	var handlerSaw string
	r := gin.New()
	r.Use(BodyCapture())
	r.POST("/echo", func(c *gin.Context) {
		if raw, ok := c.Get(RawBodyKey); ok {
			captured = raw.([]byte)
		}
		body, _ := io.ReadAll(c.Request.Body)
		handlerSaw = string(body)
		c.Status(http.StatusOK)
	})

	payload := `{"username":"nika"}`
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if string(captured) != payload {
		t.Errorf("captured body = %q, want %q", captured, payload)
	}
	if handlerSaw != payload {
		t.Errorf("handler body = %q, want the restored reader", handlerSaw)
	}
}

func TestBodyCaptureSkipsMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured bool
	r := gin.New()
	r.Use(BodyCapture())
	r.POST("/upload", func(c *gin.Context) {
		_, captured = c.Get(RawBodyKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("--x--"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if captured {
		t.Error("multipart bodies should not be buffered")
	}
}
