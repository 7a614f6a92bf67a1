package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/app/repository/memstore"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenTrialHandler struct {
	*webhook.Processor
}

func (brokenTrialHandler) VisitTrialEnded(context.Context, webhook.Meta, *webhook.TrialEnded) error {
	return errors.New("Error 1205 (HY000): Lock wait timeout exceeded")
}

func TestWebhook_HandlerFailureHidesDetail(t *testing.T) {
	store := memstore.New()
	repos := store.Repositories()
	user := store.AddUser("Anna", "anna@example.com")
	wc := NewWebhookController(webhook.NewGateway(repos.WebhookEvent, brokenTrialHandler{}), nil)

	app := fiber.New()
	app.Post("/webhooks/:source", wc.HandleWebhook)

	deliver := func() (int, map[string]interface{}) {
		body := []byte(fmt.Sprintf(`{"event":"trial.ended","data":{"userId":%d}}`, user.ID))
		req := httptest.NewRequest("POST", "/webhooks/"+models.WebhookSourceSubscription, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		out := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(raw, &out))
		return resp.StatusCode, out
	}

	prev := env.Env
	t.Cleanup(func() { env.Env = prev })

	env.Env = map[string]string{"APP_ENV": "prod"}
	status, out := deliver()
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Failed to process webhook", out["error"])

	events, _, err := repos.WebhookEvent.List(context.Background(), repository.WebhookEventFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].Error)
	assert.Contains(t, *events[0].Error, "Lock wait timeout")

	env.Env = map[string]string{"APP_ENV": "dev"}
	status, out = deliver()
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, out["error"], "Lock wait timeout")
}
