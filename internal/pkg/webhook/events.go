package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Meta identifies the stored event a parsed event belongs to.
type Meta struct {
	EventID    string
	ReceivedAt time.Time
}

// Event is a validated inbound event. The set of implementations is closed:
// each source declares its events and a visitor that must handle all of them.
type Event interface {
	Source() string
	Type() string
	accept(ctx context.Context, meta Meta, h Handler) error
}

// Handler applies events of every source.
type Handler interface {
	PaymentVisitor
	SubscriptionVisitor
	CRMVisitor
	MessagingVisitor
}

// Subject names the user an event is about: by id, with the email address
// as fallback.
type Subject struct {
	UserID uint   `json:"userId" validate:"required_without=Email"`
	Email  string `json:"email" validate:"omitempty,email,max=200"`
}

// envelope is the common {event, data} wrapper of all sources.
type envelope struct {
	Event string          `json:"event" validate:"required,max=100"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

type factory func() Event

var registry = map[string]map[string]factory{
	models.WebhookSourcePayments:     paymentEvents,
	models.WebhookSourceSubscription: subscriptionEvents,
	models.WebhookSourceCRM:          crmEvents,
	models.WebhookSourceMessaging:    messagingEvents,
}

// Sources lists the accepted webhook sources.
func Sources() []string {
	return []string{
		models.WebhookSourcePayments,
		models.WebhookSourceSubscription,
		models.WebhookSourceCRM,
		models.WebhookSourceMessaging,
	}
}

// IsKnownSource reports whether source is accepted by the gateway.
func IsKnownSource(source string) bool {
	_, ok := registry[source]
	return ok
}

// Parse decodes and validates a raw envelope for source.
func Parse(source string, raw []byte) (Event, error) {
	events, ok := registry[source]
	if !ok {
		return nil, &SchemaError{Source: source, Reason: "unknown source"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &SchemaError{Source: source, Reason: "malformed JSON"}
	}
	env.Event = strings.TrimSpace(env.Event)
	if err := validate.Struct(env); err != nil {
		return nil, &SchemaError{Source: source, Reason: describe(err)}
	}

	newEvent, ok := events[env.Event]
	if !ok {
		return nil, &SchemaError{Source: source, Reason: fmt.Sprintf("unsupported event %q", env.Event)}
	}
	ev := newEvent()
	if err := json.Unmarshal(env.Data, ev); err != nil {
		return nil, &SchemaError{Source: source, Reason: "invalid data: " + err.Error()}
	}
	if err := validate.Struct(ev); err != nil {
		return nil, &SchemaError{Source: source, Reason: describe(err)}
	}
	return ev, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
