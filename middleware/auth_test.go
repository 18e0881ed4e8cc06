package middleware

import (
	"fintrack-backend/config"
	"fintrack-backend/utils"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, utils.GetCurrentUserID(c).String())
	})

	userID := uuid.New()
	access, err := utils.GenerateToken("test-secret", userID, "asha", utils.AccessToken, time.Minute)
	require.NoError(t, err)
	refresh, err := utils.GenerateToken("test-secret", userID, "asha", utils.RefreshToken, time.Minute)
	require.NoError(t, err)

	cases := map[string]struct {
		header string
		status int
	}{
		"missing header": {"", http.StatusUnauthorized},
		"wrong scheme":   {"Token " + access, http.StatusUnauthorized},
		"refresh token":  {"Bearer " + refresh, http.StatusUnauthorized},
		"garbage":        {"Bearer abc.def.ghi", http.StatusUnauthorized},
		"valid":          {"Bearer " + access, http.StatusOK},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}
