package ratelimit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func newLimitedApp(t *testing.T, limiter *Limiter) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		},
	})
	app.Post("/login", limiter.Handle("login"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func doLogin(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestLimiter_BlocksAfterWindowExhausted(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := New(client, zap.NewNop(), config.RateLimitConfig{
		Enabled:       true,
		MaxRequests:   3,
		WindowSeconds: 60,
	})
	app := newLimitedApp(t, limiter)

	for i := 0; i < 3; i++ {
		status, _ := doLogin(t, app)
		require.Equal(t, http.StatusOK, status)
	}

	status, body := doLogin(t, app)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, MsgRateLimited, body)
}

func TestLimiter_WindowResets(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := New(client, zap.NewNop(), config.RateLimitConfig{
		Enabled:       true,
		MaxRequests:   1,
		WindowSeconds: 60,
	})
	app := newLimitedApp(t, limiter)

	status, _ := doLogin(t, app)
	require.Equal(t, http.StatusOK, status)
	status, _ = doLogin(t, app)
	require.Equal(t, http.StatusTooManyRequests, status)

	mr.FastForward(61 * time.Second)

	status, _ = doLogin(t, app)
	assert.Equal(t, http.StatusOK, status)
}

func TestLimiter_FailsOpenWhenBackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close() // backend gone before any request

	limiter := New(client, zap.NewNop(), config.RateLimitConfig{
		Enabled:       true,
		MaxRequests:   1,
		WindowSeconds: 60,
	})
	app := newLimitedApp(t, limiter)

	status, _ := doLogin(t, app)
	assert.Equal(t, http.StatusOK, status)
}

func TestLimiter_NilPassesThrough(t *testing.T) {
	var limiter *Limiter
	app := newLimitedApp(t, limiter)

	status, _ := doLogin(t, app)
	assert.Equal(t, http.StatusOK, status)
}

func TestLimiter_DisabledPassesThrough(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	limiter := New(client, zap.NewNop(), config.RateLimitConfig{
		Enabled:       false,
		MaxRequests:   1,
		WindowSeconds: 60,
	})
	app := newLimitedApp(t, limiter)

	for i := 0; i < 5; i++ {
		status, _ := doLogin(t, app)
		require.Equal(t, http.StatusOK, status)
	}
}
