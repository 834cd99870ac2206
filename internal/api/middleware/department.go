package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// DepartmentGate restricts a route group to users of the mapped department.
// Admins bypass the check; everyone else must match exactly, regardless of
// request method.
func DepartmentGate(dept domain.Department) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*domain.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenMissing.Error())
			}
			if user.Role == domain.RoleAdmin {
				return next(c)
			}
			if user.Department != string(dept) {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}

// AdminOnly restricts a route group to admin users.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*domain.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenMissing.Error())
			}
			if user.Role != domain.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
