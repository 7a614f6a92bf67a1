package webhook

import (
	"context"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
)

const (
	EventSubscriptionCreated    = "subscription.created"
	EventSubscriptionRenewed    = "subscription.renewed"
	EventSubscriptionUpgraded   = "subscription.upgraded"
	EventSubscriptionDowngraded = "subscription.downgraded"
	EventSubscriptionExpired    = "subscription.expired"
	EventTrialStarted           = "trial.started"
	EventTrialEnded             = "trial.ended"
)

// SubscriptionVisitor handles every subscription event.
type SubscriptionVisitor interface {
	VisitSubscriptionCreated(ctx context.Context, meta Meta, ev *SubscriptionCreated) error
	VisitSubscriptionRenewed(ctx context.Context, meta Meta, ev *SubscriptionRenewed) error
	VisitSubscriptionUpgraded(ctx context.Context, meta Meta, ev *SubscriptionUpgraded) error
	VisitSubscriptionDowngraded(ctx context.Context, meta Meta, ev *SubscriptionDowngraded) error
	VisitSubscriptionCancelled(ctx context.Context, meta Meta, ev *SubscriptionCancelled) error
	VisitSubscriptionExpired(ctx context.Context, meta Meta, ev *SubscriptionExpired) error
	VisitTrialStarted(ctx context.Context, meta Meta, ev *TrialStarted) error
	VisitTrialEnded(ctx context.Context, meta Meta, ev *TrialEnded) error
}

var subscriptionEvents = map[string]factory{
	EventSubscriptionCreated:    func() Event { return &SubscriptionCreated{} },
	EventSubscriptionRenewed:    func() Event { return &SubscriptionRenewed{} },
	EventSubscriptionUpgraded:   func() Event { return &SubscriptionUpgraded{} },
	EventSubscriptionDowngraded: func() Event { return &SubscriptionDowngraded{} },
	EventSubscriptionCancelled:  func() Event { return &SubscriptionCancelled{} },
	EventSubscriptionExpired:    func() Event { return &SubscriptionExpired{} },
	EventTrialStarted:           func() Event { return &TrialStarted{} },
	EventTrialEnded:             func() Event { return &TrialEnded{} },
}

// Validity is the optional window carried by subscription events.
type Validity struct {
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}

// Window converts the validity to the journey representation.
func (v Validity) Window() journey.Window {
	return journey.Window{StartsAt: v.StartsAt, EndsAt: v.EndsAt}
}

type SubscriptionCreated struct {
	Subject
	Validity
	Tier string `json:"tier" validate:"required,oneof=lebensenergie resilienz"`
}

func (e *SubscriptionCreated) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionCreated) Type() string   { return EventSubscriptionCreated }
func (e *SubscriptionCreated) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionCreated(ctx, meta, e)
}

type SubscriptionRenewed struct {
	Subject
	Validity
	Tier string `json:"tier" validate:"required,oneof=lebensenergie resilienz"`
}

func (e *SubscriptionRenewed) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionRenewed) Type() string   { return EventSubscriptionRenewed }
func (e *SubscriptionRenewed) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionRenewed(ctx, meta, e)
}

type SubscriptionUpgraded struct {
	Subject
	Validity
}

func (e *SubscriptionUpgraded) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionUpgraded) Type() string   { return EventSubscriptionUpgraded }
func (e *SubscriptionUpgraded) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionUpgraded(ctx, meta, e)
}

type SubscriptionDowngraded struct {
	Subject
	Validity
}

func (e *SubscriptionDowngraded) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionDowngraded) Type() string   { return EventSubscriptionDowngraded }
func (e *SubscriptionDowngraded) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionDowngraded(ctx, meta, e)
}

type SubscriptionCancelled struct {
	Subject
	EndsAt *time.Time `json:"endsAt"`
}

func (e *SubscriptionCancelled) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionCancelled) Type() string   { return EventSubscriptionCancelled }
func (e *SubscriptionCancelled) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionCancelled(ctx, meta, e)
}

type SubscriptionExpired struct {
	Subject
	EndsAt *time.Time `json:"endsAt"`
}

func (e *SubscriptionExpired) Source() string { return models.WebhookSourceSubscription }
func (e *SubscriptionExpired) Type() string   { return EventSubscriptionExpired }
func (e *SubscriptionExpired) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitSubscriptionExpired(ctx, meta, e)
}

type TrialStarted struct {
	Subject
	Validity
}

func (e *TrialStarted) Source() string { return models.WebhookSourceSubscription }
func (e *TrialStarted) Type() string   { return EventTrialStarted }
func (e *TrialStarted) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitTrialStarted(ctx, meta, e)
}

type TrialEnded struct {
	Subject
}

func (e *TrialEnded) Source() string { return models.WebhookSourceSubscription }
func (e *TrialEnded) Type() string   { return EventTrialEnded }
func (e *TrialEnded) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitTrialEnded(ctx, meta, e)
}
