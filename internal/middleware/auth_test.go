package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "another-secret")
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.Error(t, err)
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWTAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userId")})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	router := newAuthRouter()
	token, err := GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"valid header", "Bearer " + token, "", http.StatusOK},
		{"valid query token", "", token, http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"malformed header", "Token " + token, "", http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := "/protected"
			if tt.query != "" {
				url += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
