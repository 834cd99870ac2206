package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// currentUser extracts the user injected by the Auth middleware. Its absence
// means the middleware never ran on this route, which is a wiring error
// surfaced as 401 rather than a panic.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get("user").(*domain.User)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrTokenMissing.Error())
	}
	return user, nil
}
