package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/cache"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hitThreeTimes(t *testing.T, storage fiber.Storage) []int {
	t.Helper()
	app := fiber.New()
	app.Get("/", New(2, time.Minute, storage), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	return codes
}

func TestNew_LimitsPerWindow(t *testing.T) {
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, hitThreeTimes(t, nil))
}

func TestNewRedisStorage_UsesCacheServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	prevEnv := env.Env
	env.Env = map[string]string{"RATE_LIMIT_DB": "1"}
	t.Cleanup(func() { env.Env = prevEnv })

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})

	storage := NewRedisStorage()
	t.Cleanup(func() { _ = storage.Close() })

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, hitThreeTimes(t, storage))
	assert.NotEmpty(t, mr.DB(1).Keys())
	assert.Empty(t, mr.DB(0).Keys())
}
