package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/pkg/jwtutil"
	"rental-service/pkg/logger"
	"rental-service/pkg/tokenstore"
	"rental-service/prometheus"
)

// Context keys populated by the auth middlewares
const (
	ContextUserID  = "user_id"
	ContextEmail   = "email"
	ContextRole    = "role"
	ContextTokenID = "token_id"
	ContextClaims  = "claims"
)

// AuthMiddleware validates the JWT bearer token from the Authorization
// header and rejects blacklisted (logged-out) tokens.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		claims, err := claimsFromRequest(c)
		if err != nil {
			log.Warn("Request rejected by auth middleware", zap.Error(err))
			prometheus.RecordAuthError(err.reason)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.message})
		}

		setIdentity(c, claims)
		return next(c)
	}
}

// OptionalAuthMiddleware resolves the requester's identity when a valid
// token is presented but lets anonymous requests through. Used on public
// listing endpoints so that search and view history can be attributed.
func OptionalAuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") == "" {
			return next(c)
		}
		if claims, err := claimsFromRequest(c); err == nil {
			setIdentity(c, claims)
		}
		return next(c)
	}
}

// RequireRole guards an endpoint to a single role. Runs after
// AuthMiddleware has resolved the identity.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserRole(c) != role {
				logger.FromEcho(c).Warn("Role check failed",
					zap.String("required_role", role),
					zap.String("actual_role", UserRole(c)),
					zap.Uint("user_id", UserID(c)))
				prometheus.RecordAuthError("role_denied")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access allowed for " + role + "s only"})
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user's ID, zero when anonymous
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

// UserRole returns the authenticated user's role, empty when anonymous
func UserRole(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}

// Authenticated reports whether the request carries a resolved identity
func Authenticated(c echo.Context) bool {
	return UserID(c) != 0
}

type authError struct {
	reason  string
	message string
}

func (e *authError) Error() string { return e.message }

func claimsFromRequest(c echo.Context) (*jwtutil.UserClaims, *authError) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, &authError{"missing_token", "missing authorization token"}
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, &authError{"invalid_auth_format", "invalid authorization format, expected Bearer token"}
	}

	claims, err := jwtutil.ValidateToken(parts[1])
	if err != nil {
		return nil, &authError{"invalid_token", "invalid or expired token"}
	}

	if tokenstore.GetStore().IsRevoked(c.Request().Context(), claims.ID) {
		return nil, &authError{"revoked_token", "token has been revoked"}
	}

	return claims, nil
}

func setIdentity(c echo.Context, claims *jwtutil.UserClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextTokenID, claims.ID)
	c.Set(ContextClaims, claims)
}

// Claims returns the full token claims, nil when anonymous
func Claims(c echo.Context) *jwtutil.UserClaims {
	claims, _ := c.Get(ContextClaims).(*jwtutil.UserClaims)
	return claims
}
