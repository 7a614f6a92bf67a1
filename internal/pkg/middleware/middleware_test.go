package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/usercontext"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPIApp(t *testing.T) (*fiber.App, *memstore.Store, string) {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	user := store.AddUser("Anna", "anna@example.com")

	settings, err := repos.User.GetOrCreateSettings(context.Background(), user.ID)
	require.NoError(t, err)
	raw, err := settings.IssueAPIKey()
	require.NoError(t, err)
	settings.Timezone = "Europe/Berlin"
	require.NoError(t, repos.User.SaveSettings(context.Background(), settings))

	app := fiber.New()
	app.Get("/me", APIKeyAuthMiddleware(repos.User), RequireAPIAuth, func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		return c.JSON(fiber.Map{"id": uc.UserID, "tz": uc.Timezone})
	})
	return app, store, raw
}

func TestAPIKeyAuthMiddleware(t *testing.T) {
	app, _, raw := newAPIApp(t)

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing", want: fiber.StatusUnauthorized},
		{name: "invalid", header: "Authorization", value: "Bearer lbe_nope", want: fiber.StatusUnauthorized},
		{name: "bearer", header: "Authorization", value: "Bearer " + raw, want: fiber.StatusOK},
		{name: "x-api-key", header: "X-API-Key", value: raw, want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), `"tz":"Europe/Berlin"`)
			}
		})
	}
}

func TestAPIKeyAuthMiddleware_InactiveUser(t *testing.T) {
	store := memstore.New()
	repos := store.Repositories()
	ctx := context.Background()

	u := &models.User{Name: "Off", Email: "off@example.com", Status: models.STATUS_DISABLED}
	require.NoError(t, repos.User.UpsertByEmail(ctx, u))
	settings, _ := repos.User.GetOrCreateSettings(ctx, u.ID)
	raw, _ := settings.IssueAPIKey()
	require.NoError(t, repos.User.SaveSettings(ctx, settings))

	app := fiber.New()
	app.Get("/me", APIKeyAuthMiddleware(repos.User), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAPIAuth_WithoutContext(t *testing.T) {
	app := fiber.New()
	app.Get("/x", RequireAPIAuth, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestWebhookSignature(t *testing.T) {
	secret := "s3cr3t"
	app := fiber.New()
	app.Post("/hook", WebhookSignature(secret), func(c *fiber.Ctx) error {
		raw, _ := c.Locals(usercontext.KeyRawBody).([]byte)
		return c.Send(raw)
	})

	body := `{"event":"message.new","data":{}}`

	req := httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(body), secret))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	echoed, _ := io.ReadAll(resp.Body)
	assert.Equal(t, body, string(echoed))

	req = httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	req.Header.Set(webhook.SignatureHeader, webhook.Sign([]byte(body), "wrong"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("POST", "/hook", strings.NewReader(body))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
