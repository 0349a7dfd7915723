package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles routing

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/handler"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/middleware"
	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/model"
)

// RegisterHealth registers the unauthenticated reachability probe.  Every
// portal frontend calls this before trusting any auth decision.
func RegisterHealth(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/health", h.Health)
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
// The rate limiter wraps the credential endpoints only.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with either a bearer token or a refresh token in the
	// body, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(a.Cfg.JWTSecret))
	auth.GET("/me", a.Me)
}

// RegisterCourses registers the catalog, course-request and websocket
// routes.  All of them require a valid access token; the review endpoint
// additionally requires the course_manager role (admins pass implicitly).
func RegisterCourses(e *echo.Echo, jwtSecret string, courses *handler.CourseHandler, requests *handler.CourseRequestHandler, ws *handler.WSHandler) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.GET("/courses", courses.List)
	g.PUT("/courses/:id/publish", courses.Publish,
		middleware.RequireRole(model.RoleCourseManager))

	g.POST("/course-requests", requests.Create,
		middleware.RequireRole(model.RoleStudent, model.RoleSales))
	g.GET("/course-requests", requests.List)
	g.GET("/course-requests/:id", requests.Get)
	g.PUT("/course-requests/:id/review", requests.Review,
		middleware.RequireRole(model.RoleCourseManager))

	g.GET("/course-requests/:id/ws", ws.Subscribe)
}
