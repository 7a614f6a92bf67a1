package webhook

import (
	"errors"
	"testing"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidEvents(t *testing.T) {
	tests := []struct {
		source string
		body   string
		want   string
	}{
		{models.WebhookSourcePayments, `{"event":"payment.completed","data":{"userId":1,"courseId":"c1"}}`, EventPaymentCompleted},
		{models.WebhookSourcePayments, `{"event":"payment.refunded","data":{"email":"a@example.com"}}`, EventPaymentRefunded},
		{models.WebhookSourcePayments, `{"event":"subscription.cancelled","data":{"userId":1,"courseId":"c1"}}`, EventSubscriptionCancelled},
		{models.WebhookSourceSubscription, `{"event":"subscription.created","data":{"userId":1,"tier":"resilienz","endsAt":"2024-04-01T00:00:00Z"}}`, EventSubscriptionCreated},
		{models.WebhookSourceSubscription, `{"event":"trial.ended","data":{"userId":1}}`, EventTrialEnded},
		{models.WebhookSourceCRM, `{"event":"contact.created","data":{"email":"neu@example.com","name":"Neu"}}`, EventContactCreated},
		{models.WebhookSourceCRM, `{"event":"membership.changed","data":{"userId":1,"tenantSlug":"acme","role":"coach"}}`, EventMembershipChanged},
		{models.WebhookSourceMessaging, `{"event":"message.new","data":{"userId":1,"senderName":"Lena","conversationId":"c","message":"hi"}}`, EventMessageNew},
		{models.WebhookSourceMessaging, `{"event":"contact.request","data":{"userId":1,"requesterName":"Tom"}}`, EventContactRequest},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ev, err := Parse(tt.source, []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Type())
			assert.Equal(t, tt.source, ev.Source())
		})
	}
}

func TestParse_SubscriptionWindow(t *testing.T) {
	ev, err := Parse(models.WebhookSourceSubscription,
		[]byte(`{"event":"subscription.created","data":{"userId":3,"tier":"lebensenergie","startsAt":"2024-03-01T00:00:00Z","endsAt":"2024-04-01T00:00:00Z"}}`))
	require.NoError(t, err)
	created, ok := ev.(*SubscriptionCreated)
	require.True(t, ok)
	assert.EqualValues(t, 3, created.UserID)
	require.NotNil(t, created.StartsAt)
	require.NotNil(t, created.EndsAt)
	assert.Equal(t, 2024, created.EndsAt.Year())
}

func TestParse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		body   string
	}{
		{"unknown source", "billing", `{"event":"x","data":{}}`},
		{"malformed json", models.WebhookSourcePayments, `{"event":`},
		{"missing event", models.WebhookSourcePayments, `{"data":{"userId":1}}`},
		{"missing data", models.WebhookSourcePayments, `{"event":"payment.completed"}`},
		{"unsupported event", models.WebhookSourcePayments, `{"event":"payment.exploded","data":{"userId":1}}`},
		{"missing subject", models.WebhookSourcePayments, `{"event":"payment.completed","data":{"courseId":"c1"}}`},
		{"missing course", models.WebhookSourcePayments, `{"event":"payment.completed","data":{"userId":1}}`},
		{"unknown tier", models.WebhookSourceSubscription, `{"event":"subscription.created","data":{"userId":1,"tier":"gold"}}`},
		{"bad email", models.WebhookSourceCRM, `{"event":"contact.updated","data":{"email":"nope"}}`},
		{"bad role", models.WebhookSourceCRM, `{"event":"membership.changed","data":{"userId":1,"tenantSlug":"a","role":"owner"}}`},
		{"wrong data type", models.WebhookSourceMessaging, `{"event":"message.new","data":{"userId":"abc"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source, []byte(tt.body))
			require.Error(t, err)
			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr), "got %T: %v", err, err)
		})
	}
}

func TestSources(t *testing.T) {
	for _, s := range Sources() {
		assert.True(t, IsKnownSource(s))
	}
	assert.False(t, IsKnownSource("billing"))
}
