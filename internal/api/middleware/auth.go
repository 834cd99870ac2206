package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// TokenCookie is the httpOnly cookie carrying the session JWT.
const TokenCookie = "token"

// UserFetcher loads the authenticated user on every request. Role and
// department are never trusted from the token, so an admin changing a user's
// department takes effect mid-session.
type UserFetcher interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// RevocationChecker reports whether a token id was denylisted by a logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Auth validates the session token and injects the refreshed user into the
// request context. The failure messages distinguish missing, malformed,
// expired, and revoked tokens so the client can decide how to recover.
func Auth(jwtSecret string, users UserFetcher, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenMissing.Error())
			}

			claims := jwt.RegisteredClaims{}
			tkn, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				if errors.Is(err, jwt.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenExpired.Error())
				}
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
			}

			if claims.ID != "" {
				isRevoked, err := revoked.IsRevoked(c.Request().Context(), claims.ID)
				if err == nil && isRevoked {
					return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenRevoked.Error())
				}
			}

			user, err := users.FindByID(c.Request().Context(), claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUserInactive.Error())
			}

			c.Set("user", user)
			c.Set("raw_token", raw)

			return next(c)
		}
	}
}

// tokenFromRequest prefers the session cookie; a bearer Authorization header
// is accepted as a fallback for non-browser clients.
func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
