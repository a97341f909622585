package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestGetRealIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"public X-Real-IP", map[string]string{"X-Real-IP": "203.0.113.5"}, "10.0.0.1:1234", "203.0.113.5"},
		{"first public forwarded", map[string]string{"X-Forwarded-For": "10.0.0.2, 203.0.113.9, 198.51.100.1"}, "10.0.0.1:1", "203.0.113.9"},
		{"all private forwarded", map[string]string{"X-Forwarded-For": "192.168.1.4, 10.0.0.3"}, "10.0.0.1:1", "192.168.1.4"},
		{"direct connection", nil, "198.51.100.20:5555", "198.51.100.20"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tc.want, GetRealIP(c))
		})
	}
}

func TestGetUserAgent(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Del("User-Agent")
	assert.Equal(t, "Unknown", GetUserAgent(c))

	c.Request.Header.Set("User-Agent", "curl/8.4.0")
	assert.Equal(t, "curl/8.4.0", GetUserAgent(c))
}
