package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/ports"
)

// AdminHandler handles the /api/auth/admin user-management subtree. Every
// route is behind the AdminOnly gate.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

type createUserRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Name       string `json:"name"        validate:"required"`
	Password   string `json:"password"    validate:"required,min=6"`
	Department string `json:"department"  validate:"required"`
	Role       string `json:"role"        validate:"required,oneof=admin operator"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ListUsers handles GET /api/auth/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okCount(users, len(users)))
}

// CreateUser handles POST /api/auth/admin/users.
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.CreateUser(c.Request().Context(), ports.CreateUserInput{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Password:   req.Password,
		Department: req.Department,
		Role:       req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ok(user))
}

// UpdateUser handles PUT /api/auth/admin/users/:id. The body is a free-form
// field map checked against the user allow-list by the service.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.authService.UpdateUser(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok(user))
}

// ResetPassword handles PUT /api/auth/admin/users/:id/password.
func (h *AdminHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("id"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("password reset"))
}

// DeleteUser handles DELETE /api/auth/admin/users/:id. Admin accounts are
// refused with 403.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.authService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, okMessage("user deleted"))
}
