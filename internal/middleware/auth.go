package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront-service/internal/model"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// UserLookup resolves identity-provider emails to local accounts
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticator accepts locally issued tokens and, when a verifier is set,
// ID tokens from the configured identity provider
type Authenticator struct {
	jwt      *jwtutil.JWTUtil
	verifier *oidc.IDTokenVerifier
	users    UserLookup
}

// NewAuthenticator creates an authenticator. verifier may be nil.
func NewAuthenticator(jwt *jwtutil.JWTUtil, verifier *oidc.IDTokenVerifier, users UserLookup) *Authenticator {
	return &Authenticator{jwt: jwt, verifier: verifier, users: users}
}

// RequireAuth validates the bearer token and stores the claims in the context
func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.RecordAuthError("missing_token")
			return unauthorized(c, "Token de autorización requerido")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.RecordAuthError("invalid_format")
			return unauthorized(c, "Formato de autorización inválido, se espera Bearer token")
		}

		claims, err := a.jwt.ValidateToken(parts[1])
		if err != nil && a.verifier != nil {
			claims, err = a.verifyIDToken(c.Request().Context(), parts[1])
		}
		if err != nil {
			log.Warn("Invalid token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return unauthorized(c, "Token inválido o expirado")
		}

		c.Set(claimsKey, claims)
		c.Set("user_id", claims.UserID)
		return next(c)
	}
}

func (a *Authenticator) verifyIDToken(ctx context.Context, raw string) (*jwtutil.UserClaims, error) {
	token, err := a.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}

	var identity struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&identity); err != nil {
		return nil, err
	}

	user, err := a.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	return &jwtutil.UserClaims{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     jwtutil.RoleFor(user.IsAdmin),
	}, nil
}

// RequireAdmin rejects authenticated users without the admin role. It must
// run after RequireAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return unauthorized(c, "Token de autorización requerido")
		}
		if !claims.IsAdmin() {
			logger.FromContext(c).Warn("Admin access denied", zap.Uint("user_id", claims.UserID))
			prometheus.RecordAuthError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{
				"success": false,
				"error":   "Acceso restringido a administradores",
			})
		}
		return next(c)
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(claimsKey).(*jwtutil.UserClaims)
	return claims, ok
}

func unauthorized(c echo.Context, message string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": message})
}
