package middleware // middleware contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers
)

// Context keys set by JWTAuth for downstream handlers.
const (
    CtxUserID = "user_id"
    CtxRoles  = "roles"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject and roles claims into the request
// context.  The provided secret must match the one used when issuing
// tokens.  Handlers behind this middleware read the authenticated user via
// c.Get(CtxUserID) (uint64) and c.Get(CtxRoles) ([]string).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with HS256 and our secret; reject any other signing
            // method so an attacker cannot downgrade to "none".
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            uid, ok := subjectID(claims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            c.Set(CtxUserID, uid)
            c.Set(CtxRoles, rolesClaim(claims))
            return next(c)
        }
    }
}

// subjectID extracts the numeric user id from the sub claim.  JWT numbers
// decode as float64; some issuers encode the subject as a string.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
    switch v := claims["sub"].(type) {
    case float64:
        return uint64(v), true
    case string:
        var id uint64
        for _, ch := range v {
            if ch < '0' || ch > '9' {
                return 0, false
            }
            id = id*10 + uint64(ch-'0')
        }
        return id, v != ""
    }
    return 0, false
}

// rolesClaim normalizes the roles claim into a lower-cased string slice.
// Tokens decoded from JSON carry the list as []interface{}.
func rolesClaim(claims jwt.MapClaims) []string {
    raw, ok := claims["roles"].([]interface{})
    if !ok {
        return nil
    }
    roles := make([]string, 0, len(raw))
    for _, v := range raw {
        if s, ok := v.(string); ok && s != "" {
            roles = append(roles, strings.ToLower(s))
        }
    }
    return roles
}
