package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func adminRouter(conf *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(New(conf).AdminAuth())
	router.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString("admin_subject")})
	})
	return router
}

func callAdmin(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := &config.Config{Env: "production", Auth: config.AuthConfig{AdminJWTSecret: string(testSecret)}}

	t.Run("accepts a valid admin token", func(t *testing.T) {
		token, err := SignAdminToken(testSecret, "ops", time.Minute)
		require.NoError(t, err)

		w := callAdmin(adminRouter(conf), "Bearer "+token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"subject":"ops"`)
	})

	t.Run("rejects a missing token", func(t *testing.T) {
		w := callAdmin(adminRouter(conf), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing bearer token")
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token, err := SignAdminToken([]byte("other"), "ops", time.Minute)
		require.NoError(t, err)

		w := callAdmin(adminRouter(conf), "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token, err := SignAdminToken(testSecret, "ops", -time.Hour)
		require.NoError(t, err)

		w := callAdmin(adminRouter(conf), "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forbids a token without the admin role", func(t *testing.T) {
		claims := AdminClaims{
			Role: "viewer",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)

		w := callAdmin(adminRouter(conf), "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("skips the check in dev without a secret", func(t *testing.T) {
		w := callAdmin(adminRouter(&config.Config{Env: "dev"}), "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("denies outside dev without a secret", func(t *testing.T) {
		w := callAdmin(adminRouter(&config.Config{Env: "production"}), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBearerToken(t *testing.T) {
	token, err := bearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	token, err = bearerToken("bearer  abc ")
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := bearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}
