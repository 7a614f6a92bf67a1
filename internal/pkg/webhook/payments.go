package webhook

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

const (
	EventPaymentCompleted      = "payment.completed"
	EventPaymentRefunded       = "payment.refunded"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// PaymentVisitor handles every payments event.
type PaymentVisitor interface {
	VisitPaymentCompleted(ctx context.Context, meta Meta, ev *PaymentCompleted) error
	VisitPaymentRefunded(ctx context.Context, meta Meta, ev *PaymentRefunded) error
	VisitPaymentSubscriptionCancelled(ctx context.Context, meta Meta, ev *PaymentSubscriptionCancelled) error
}

var paymentEvents = map[string]factory{
	EventPaymentCompleted:      func() Event { return &PaymentCompleted{} },
	EventPaymentRefunded:       func() Event { return &PaymentRefunded{} },
	EventSubscriptionCancelled: func() Event { return &PaymentSubscriptionCancelled{} },
}

// PaymentCompleted grants course access.
type PaymentCompleted struct {
	Subject
	CourseID  string     `json:"courseId" validate:"required,max=191"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (e *PaymentCompleted) Source() string { return models.WebhookSourcePayments }
func (e *PaymentCompleted) Type() string   { return EventPaymentCompleted }
func (e *PaymentCompleted) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitPaymentCompleted(ctx, meta, e)
}

// PaymentRefunded revokes course access. Without a course id every active
// grant of the user is revoked.
type PaymentRefunded struct {
	Subject
	CourseID string `json:"courseId" validate:"max=191"`
}

func (e *PaymentRefunded) Source() string { return models.WebhookSourcePayments }
func (e *PaymentRefunded) Type() string   { return EventPaymentRefunded }
func (e *PaymentRefunded) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitPaymentRefunded(ctx, meta, e)
}

// PaymentSubscriptionCancelled is the payment provider's view of a
// cancelled course subscription.
type PaymentSubscriptionCancelled struct {
	Subject
	CourseID string `json:"courseId" validate:"max=191"`
}

func (e *PaymentSubscriptionCancelled) Source() string { return models.WebhookSourcePayments }
func (e *PaymentSubscriptionCancelled) Type() string   { return EventSubscriptionCancelled }
func (e *PaymentSubscriptionCancelled) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitPaymentSubscriptionCancelled(ctx, meta, e)
}
