package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/api/middleware"
	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
	"github.com/forgeline/qc-system/internal/metrics"
)

// AuthHandler handles login, verify, logout, and password changes.
type AuthHandler struct {
	authService   ports.AuthService
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

type loginRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Password   string `json:"password"    validate:"required"`
}

type loginData struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
}

// Login handles POST /api/auth/login. On success the JWT is set as an
// httpOnly cookie; the body carries only the profile and expiry.
//
// @Summary      Login with employee id and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		EmployeeID: req.EmployeeID,
		Password:   req.Password,
		IP:         c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserInactive):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		case errors.Is(err, domain.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.tokenCookie(result.Token, result.ExpiresAt))
	return c.JSON(http.StatusOK, ok(loginData{User: result.User, ExpiresAt: result.ExpiresAt}))
}

// Verify handles GET /api/auth/verify — returns the profile re-fetched by the
// auth middleware, confirming the session is still good.
func (h *AuthHandler) Verify(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(user))
}

// Logout handles POST /api/auth/logout — revokes the token for its remaining
// lifetime and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if raw, ok := c.Get("raw_token").(string); ok && raw != "" {
		if err := h.authService.Logout(c.Request().Context(), raw); err != nil {
			return err
		}
	}
	c.SetCookie(h.expiredCookie())
	return c.JSON(http.StatusOK, okMessage("logged out"))
}

// ChangePassword handles PUT /api/auth/changepassword.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID.Hex(), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("password changed"))
}

func (h *AuthHandler) tokenCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
