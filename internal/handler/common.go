package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/middleware"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
)

var errNoIdentity = errors.New("no authenticated user in context")

// currentUserID extracts the authenticated user's id stored by the JWT
// middleware.  Handlers treat a missing id as 401 since it means the
// middleware chain was bypassed or misconfigured.
func currentUserID(c echo.Context) (uint64, error) {
	id, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok || id == 0 {
		return 0, errNoIdentity
	}
	return id, nil
}

// currentRoles returns the roles list stored by the JWT middleware.
func currentRoles(c echo.Context) []string {
	roles, _ := c.Get(middleware.CtxRoles).([]string)
	return roles
}

// holdsRole applies the capability rule to the context's roles: true when
// the caller holds the role directly or holds admin.
func holdsRole(c echo.Context, role string) bool {
	u := model.User{Roles: currentRoles(c)}
	return u.HasRole(role)
}
