package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes
    "strings"

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
)

// RequireRole returns a middleware that enforces that the authenticated
// user holds at least one of the given roles.  The admin role passes every
// gate: admins see all portals.  It assumes JWTAuth already stored the
// roles list in context under CtxRoles; requests with no roles are
// rejected with 403 Forbidden.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[strings.ToLower(r)] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            held, ok := c.Get(CtxRoles).([]string)
            if !ok {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            for _, r := range held {
                r = strings.ToLower(r)
                if r == model.RoleAdmin || allowed[r] {
                    return next(c)
                }
            }
            return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
        }
    }
}
