package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/zfogg/picfeed/internal/auth"
	"github.com/zfogg/picfeed/internal/models"
	"github.com/zfogg/picfeed/internal/util"
)

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware(), mw)
	router.GET("/whoami", func(c *gin.Context) {
		id, _ := util.GetOptionalUserID(c)
		c.String(http.StatusOK, id)
	})
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	authn := auth.NewMockAuthenticator()
	authn.AddToken("good", &models.User{ID: "user-1"})
	router := authRouter(RequireAuth(authn))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad", http.StatusUnauthorized, ""},
		{"valid", "Bearer good", http.StatusOK, "user-1"},
		{"case-insensitive scheme", "bearer good", http.StatusOK, "user-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	authn := auth.NewMockAuthenticator()
	authn.AddToken("good", &models.User{ID: "user-1"})
	router := authRouter(OptionalAuth(authn))

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = get(router, "Bearer bad")
	assert.Equal(t, http.StatusOK, w.Code, "invalid tokens degrade to anonymous")
	assert.Empty(t, w.Body.String())

	w = get(router, "Bearer good")
	assert.Equal(t, "user-1", w.Body.String())
}

func TestUserStoreFailureIsNotUnauthorized(t *testing.T) {
	authn := auth.NewMockAuthenticator()
	authn.Err = fmt.Errorf("lookup user: %w", errors.New("sql: database is closed"))

	w := get(authRouter(RequireAuth(authn)), "Bearer good")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"SERVER_ERROR"`)

	w = get(authRouter(OptionalAuth(authn)), "Bearer good")
	assert.Equal(t, http.StatusInternalServerError, w.Code, "no silent anonymous fallback")

	authn.Err = fmt.Errorf("%w: token is expired", auth.ErrInvalidToken)
	w = get(authRouter(RequireAuth(authn)), "Bearer good")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(authRouter(OptionalAuth(authn)), "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequestIDPropagates(t *testing.T) {
	router := authRouter(func(c *gin.Context) { c.Next() })
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
