package router

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/controllers"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoutedApp(t *testing.T, adminPassword string) (*fiber.App, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	controllers.InitializeControllers(repos, nil, nil)

	app := fiber.New()
	setup(app,
		NewHttpRouter(),
		NewWebhookRouter(webhook.Config{Secret: "s3cret", RateLimit: 100}, nil),
		NewApiRouter(repos.User, nil),
		NewAdminRouter("admin", adminPassword),
	)
	return app, store
}

func status(t *testing.T, app *fiber.App, method, path string, body []byte, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRoutes(t *testing.T) {
	app, store := newRoutedApp(t, "pw")
	user := store.AddUser("Anna", "anna@example.com")

	body := []byte(`{"event":"contact.updated","data":{"email":"` + user.Email + `","name":"Anna B."}}`)
	signed := map[string]string{webhook.SignatureHeader: webhook.Sign(body, "s3cret")}

	assert.Equal(t, fiber.StatusOK, status(t, app, "GET", "/health", nil, nil))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", "/webhooks/crm", body, nil))
	assert.Equal(t, fiber.StatusOK, status(t, app, "POST", "/webhooks/crm", body, signed))
	assert.Equal(t, 1, store.EventCount())

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "POST", "/checkin", []byte(`{}`), nil))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/journey", nil, nil))

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "GET", "/admin/webhook-events", nil, nil))
	req := httptest.NewRequest("GET", "/admin/webhook-events", nil)
	req.SetBasicAuth("admin", "pw")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminDisabledWithoutPassword(t *testing.T) {
	app, _ := newRoutedApp(t, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status(t, app, "GET", "/admin/webhook-events", nil, nil))
}
