package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/pkg/utils/tokens"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AdminAuth(cfg))
	r.GET("/guarded", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAdminAuth(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.TokenSecret = "test-secret"
	r := authTestRouter(cfg)

	valid, err := tokens.Sign("test-secret", time.Minute)
	require.NoError(t, err)
	expired, err := tokens.Sign("test-secret", -time.Minute)
	require.NoError(t, err)
	foreign, err := tokens.Sign("other-secret", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
