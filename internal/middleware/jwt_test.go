package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BridgeXconnect/ai-language-learning-platform-sub005/internal/utils"
)

const testSecret = "unit-test-secret"

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"roles":   c.Get(CtxRoles),
		})
	}, mw...)
	return e
}

func doGet(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthGarbageToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("different-secret", 7, []string{"student"}, 15)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenSetsContext(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, []string{"Trainer", "student"}, 15)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	rec := doGet(e, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id": 7, "roles": ["trainer", "student"]}`, rec.Body.String())
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 3, []string{"course_manager"}, 15)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole("course_manager"))
	rec := doGet(e, tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 3, []string{"student"}, 15)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole("course_manager"))
	rec := doGet(e, tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdminPassesEveryGate(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 1, []string{"admin"}, 15)
	require.NoError(t, err)

	for _, gate := range []string{"sales", "course_manager", "trainer", "student"} {
		e := protectedEcho(JWTAuth(testSecret), RequireRole(gate))
		rec := doGet(e, tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code, "admin should pass the %s gate", gate)
	}
}

func TestRequireRoleAnyOf(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 2, []string{"sales"}, 15)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret), RequireRole("student", "sales"))
	rec := doGet(e, tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleNoRolesInContext(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole("student"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
