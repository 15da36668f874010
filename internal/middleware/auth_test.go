package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"notes-service/pkg/config"
	"notes-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := callAuth(t, tc.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1})
	token, err := jwtutil.GenerateToken(1, "user@acme.test", "member", 1, "acme")
	require.NoError(t, err)

	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	rec, _ := callAuth(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthPopulatesCallerContext(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken(42, "admin@acme.test", "admin", 7, "acme")
	require.NoError(t, err)

	rec, c := callAuth(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, uint(42), c.Get("user_id"))
	assert.Equal(t, "admin@acme.test", c.Get("email"))
	assert.Equal(t, "admin", c.Get("user_role"))
	assert.Equal(t, uint(7), c.Get("tenant_id"))
	assert.Equal(t, "acme", c.Get("tenant_slug"))
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()

	run := func(role interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/tenants/acme/upgrade", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("user_role", role)
		}
		handler := RequireAdmin(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))
		return rec
	}

	assert.Equal(t, http.StatusOK, run("admin").Code)
	assert.Equal(t, http.StatusForbidden, run("member").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
