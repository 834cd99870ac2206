package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forgeline/qc-system/internal/core/domain"
)

const testSecret = "test-secret"

type stubUsers struct {
	user *domain.User
}

func (s *stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if s.user != nil && s.user.ID.Hex() == id {
		return s.user, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubRevoked struct {
	jtis map[string]bool
}

func (s *stubRevoked) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.jtis[jti], nil
}

func activeUser() *domain.User {
	return &domain.User{
		ID:         primitive.NewObjectID(),
		EmployeeID: "EMP001",
		Department: "impact",
		Role:       domain.RoleOperator,
		IsActive:   true,
	}
}

func mintToken(t *testing.T, sub, jti string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

// invoke runs the auth middleware over a no-op handler and returns the
// context plus any middleware error.
func invoke(t *testing.T, users *stubUsers, revoked *stubRevoked, decorate func(*http.Request)) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/impact/current-date", nil)
	if decorate != nil {
		decorate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret, users, revoked)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func assertHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
	if he.Message != message {
		t.Fatalf("expected message %q, got %v", message, he.Message)
	}
}

func TestAuth_ValidCookie(t *testing.T) {
	user := activeUser()
	users := &stubUsers{user: user}
	revoked := &stubRevoked{jtis: map[string]bool{}}
	token := mintToken(t, user.ID.Hex(), "jti-1", time.Hour)

	c, err := invoke(t, users, revoked, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	if err != nil {
		t.Fatalf("expected pass-through, got %v", err)
	}

	got, ok := c.Get("user").(*domain.User)
	if !ok || got.ID != user.ID {
		t.Fatalf("refreshed user not injected into context: %v", c.Get("user"))
	}
	if c.Get("raw_token") != token {
		t.Fatalf("raw token not stored for logout")
	}
}

func TestAuth_BearerFallback(t *testing.T) {
	user := activeUser()
	token := mintToken(t, user.ID.Hex(), "jti-2", time.Hour)

	_, err := invoke(t, &stubUsers{user: user}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if err != nil {
		t.Fatalf("bearer header must be accepted, got %v", err)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	_, err := invoke(t, &stubUsers{}, &stubRevoked{jtis: map[string]bool{}}, nil)
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenMissing.Error())
}

func TestAuth_ExpiredToken(t *testing.T) {
	user := activeUser()
	token := mintToken(t, user.ID.Hex(), "jti-3", -time.Minute)

	_, err := invoke(t, &stubUsers{user: user}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenExpired.Error())
}

func TestAuth_GarbageToken(t *testing.T) {
	_, err := invoke(t, &stubUsers{}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not.a.jwt"})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
}

func TestAuth_WrongSigningKey(t *testing.T) {
	user := activeUser()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.Hex(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = invoke(t, &stubUsers{user: user}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
}

func TestAuth_RevokedToken(t *testing.T) {
	user := activeUser()
	token := mintToken(t, user.ID.Hex(), "jti-4", time.Hour)

	_, err := invoke(t, &stubUsers{user: user}, &stubRevoked{jtis: map[string]bool{"jti-4": true}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenRevoked.Error())
}

func TestAuth_DeletedUser(t *testing.T) {
	token := mintToken(t, primitive.NewObjectID().Hex(), "jti-5", time.Hour)

	_, err := invoke(t, &stubUsers{}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrTokenInvalid.Error())
}

func TestAuth_DeactivatedUser(t *testing.T) {
	user := activeUser()
	user.IsActive = false
	token := mintToken(t, user.ID.Hex(), "jti-6", time.Hour)

	_, err := invoke(t, &stubUsers{user: user}, &stubRevoked{jtis: map[string]bool{}}, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assertHTTPError(t, err, http.StatusUnauthorized, domain.ErrUserInactive.Error())
}
