package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-rest-service/pkg/security"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// setupAuthRouter returns a router with a protected endpoint that echoes the
// actor resolved from the request context.
func setupAuthRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(testSecret, zaptest.NewLogger(t)))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, security.ActorFromContext(c.Request.Context()))
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	r := setupAuthRouter(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"preferred_username": "alice",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestAuth_TokenWithoutUsernameClaim(t *testing.T) {
	r := setupAuthRouter(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, security.AnonymousActor, w.Body.String())
}

func TestAuth_MissingToken(t *testing.T) {
	r := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":["missing bearer token"]}`, w.Body.String())
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":["missing bearer token"]}`, w.Body.String())
}

func TestAuth_WrongSignature(t *testing.T) {
	r := setupAuthRouter(t)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"preferred_username": "alice",
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":["invalid bearer token"]}`, w.Body.String())
}

func TestAuth_ExpiredToken(t *testing.T) {
	r := setupAuthRouter(t)

	token := signToken(t, testSecret, jwt.MapClaims{
		"preferred_username": "alice",
		"exp":                time.Now().Add(-time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"errors":["invalid bearer token"]}`, w.Body.String())
}
