package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// HealthHandler reports backend reachability.  Frontends probe this
// before trusting any auth decision: an unreachable backend gets a retry
// screen, a reachable one with bad tokens gets a login prompt.  The
// database decides the overall verdict; redis only degrades because the
// platform works without it.
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client // may be nil when redis is not configured
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
    return &HealthHandler{DB: db, Redis: rdb}
}

// Health serves GET /health.  Returns 200 with per-dependency detail, or
// 503 when the database is unreachable.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    dbState := "up"
    if err := h.DB.PingContext(ctx); err != nil {
        dbState = "down"
    }

    redisState := "disabled"
    if h.Redis != nil {
        redisState = "up"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            redisState = "down"
        }
    }

    status := "ok"
    code := http.StatusOK
    if dbState == "down" {
        status = "down"
        code = http.StatusServiceUnavailable
    } else if redisState == "down" {
        status = "degraded"
    }

    return c.JSON(code, echo.Map{
        "status":   status,
        "database": dbState,
        "redis":    redisState,
    })
}
