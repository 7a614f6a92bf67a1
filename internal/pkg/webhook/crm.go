package webhook

import (
	"context"

	"github.com/ManuelReschke/Lebensenergie/app/models"
)

const (
	EventContactCreated    = "contact.created"
	EventContactUpdated    = "contact.updated"
	EventMembershipChanged = "membership.changed"
)

// CRMVisitor handles every CRM event.
type CRMVisitor interface {
	VisitContactCreated(ctx context.Context, meta Meta, ev *ContactCreated) error
	VisitContactUpdated(ctx context.Context, meta Meta, ev *ContactUpdated) error
	VisitMembershipChanged(ctx context.Context, meta Meta, ev *MembershipChanged) error
}

var crmEvents = map[string]factory{
	EventContactCreated:    func() Event { return &ContactCreated{} },
	EventContactUpdated:    func() Event { return &ContactUpdated{} },
	EventMembershipChanged: func() Event { return &MembershipChanged{} },
}

// ContactProfile holds the CRM-owned user fields.
type ContactProfile struct {
	Email      string `json:"email" validate:"required,email,max=200"`
	Name       string `json:"name" validate:"max=150"`
	ExternalID string `json:"externalId" validate:"max=191"`
	Phone      string `json:"phone" validate:"max=50"`
	AvatarURL  string `json:"avatarUrl" validate:"omitempty,url,max=255"`
}

type ContactCreated struct {
	ContactProfile
}

func (e *ContactCreated) Source() string { return models.WebhookSourceCRM }
func (e *ContactCreated) Type() string   { return EventContactCreated }
func (e *ContactCreated) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitContactCreated(ctx, meta, e)
}

type ContactUpdated struct {
	ContactProfile
}

func (e *ContactUpdated) Source() string { return models.WebhookSourceCRM }
func (e *ContactUpdated) Type() string   { return EventContactUpdated }
func (e *ContactUpdated) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitContactUpdated(ctx, meta, e)
}

type MembershipChanged struct {
	Subject
	TenantSlug string `json:"tenantSlug" validate:"required,max=191"`
	TenantName string `json:"tenantName" validate:"max=200"`
	Role       string `json:"role" validate:"required,oneof=member coach admin"`
}

func (e *MembershipChanged) Source() string { return models.WebhookSourceCRM }
func (e *MembershipChanged) Type() string   { return EventMembershipChanged }
func (e *MembershipChanged) accept(ctx context.Context, meta Meta, h Handler) error {
	return h.VisitMembershipChanged(ctx, meta, e)
}
