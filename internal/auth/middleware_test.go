package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func newTestApp(tm *TokenManager, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		},
	})

	m := NewMiddleware(tm)
	chain := append([]fiber.Handler{m.Handle}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.Status(500).SendString("no claims")
		}
		return c.SendString(claims.AccountID() + "|" + string(claims.Role))
	})
	app.Get("/probe", chain...)
	return app
}

func doProbe(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", time.Hour))

	status, body := doProbe(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, MsgNoToken, body)
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", time.Hour))

	status, body := doProbe(t, app, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, MsgNoToken, body)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	app := newTestApp(NewTokenManager("secret", time.Hour))

	status, body := doProbe(t, app, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, MsgInvalidToken, body)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.ttl = -time.Minute
	token, _, err := tm.Issue(&domain.Account{ID: "u1", Email: "a@smu.edu.ph", Role: domain.RoleStaff})
	require.NoError(t, err)

	tm.ttl = time.Hour
	app := newTestApp(tm)

	status, body := doProbe(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, MsgInvalidToken, body)
}

func TestMiddleware_ValidToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(&domain.Account{ID: "u1", Email: "a@smu.edu.ph", Role: domain.RoleAdmin})
	require.NoError(t, err)

	app := newTestApp(tm)

	status, body := doProbe(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1|admin", body)
}

func TestRequireRole_Denied(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(&domain.Account{ID: "u1", Email: "a@smu.edu.ph", Role: domain.RoleStaff})
	require.NoError(t, err)

	app := newTestApp(tm, RequireRole(domain.RoleAdmin))

	status, body := doProbe(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, MsgForbidden, body)
}

func TestRequireRole_Allowed(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(&domain.Account{ID: "u1", Email: "a@smu.edu.ph", Role: domain.RoleAdmin})
	require.NoError(t, err)

	app := newTestApp(tm, RequireRole(domain.RoleAdmin))

	status, _ := doProbe(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestRequireRole_Variadic(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Issue(&domain.Account{ID: "u1", Email: "a@smu.edu.ph", Role: domain.RoleStaff})
	require.NoError(t, err)

	app := newTestApp(tm, RequireRole(domain.RoleAdmin, domain.RoleStaff))

	status, _ := doProbe(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}
