package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/model"
	"rental-service/pkg/config"
	"rental-service/pkg/jwtutil"
)

func setupToken(t *testing.T, role string) string {
	t.Helper()
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "middleware-test-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken("user@example.com", 42, role)
	require.NoError(t, err)
	return token
}

func runRequest(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	setupToken(t, model.RoleTenant)
	rec, _ := runRequest(AuthMiddleware, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	token := setupToken(t, model.RoleTenant)
	rec, _ := runRequest(AuthMiddleware, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	setupToken(t, model.RoleTenant)
	rec, _ := runRequest(AuthMiddleware, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token := setupToken(t, model.RoleTenant)
	rec, c := runRequest(AuthMiddleware, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), UserID(c))
	assert.Equal(t, model.RoleTenant, UserRole(c))
	assert.True(t, Authenticated(c))
	require.NotNil(t, Claims(c))
	assert.NotEmpty(t, Claims(c).ID)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	setupToken(t, model.RoleTenant)
	rec, c := runRequest(OptionalAuthMiddleware, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, Authenticated(c))
	assert.Equal(t, uint(0), UserID(c))
}

func TestOptionalAuthResolvesIdentity(t *testing.T) {
	token := setupToken(t, model.RoleLandlord)
	rec, c := runRequest(OptionalAuthMiddleware, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), UserID(c))
	assert.Equal(t, model.RoleLandlord, UserRole(c))
}

func TestOptionalAuthIgnoresBadToken(t *testing.T) {
	setupToken(t, model.RoleTenant)
	rec, c := runRequest(OptionalAuthMiddleware, "Bearer garbage")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, Authenticated(c))
}

func TestRequireRole(t *testing.T) {
	token := setupToken(t, model.RoleTenant)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	chain := AuthMiddleware(RequireRole(model.RoleLandlord)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	_ = chain(c)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	chain = AuthMiddleware(RequireRole(model.RoleTenant)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}))
	_ = chain(c)
	assert.Equal(t, http.StatusOK, rec.Code)
}
