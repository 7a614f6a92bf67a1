package webhook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/badges"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/entitlements"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/notify"
	"gorm.io/gorm"
)

// Processor is the Handler applying events to journeys, entitlements,
// users, tenants and notifications.
type Processor struct {
	users        repository.UserRepository
	tenants      repository.TenantRepository
	journeys     *journey.Service
	entitlements *entitlements.Service
	badges       *badges.Engine
	notify       *notify.Service
}

var _ Handler = (*Processor)(nil)

// NewProcessor wires a processor from repositories and journey settings.
func NewProcessor(repos *repository.Repositories, journeyCfg journey.Config) *Processor {
	return &Processor{
		users:        repos.User,
		tenants:      repos.Tenant,
		journeys:     journey.NewService(repos.Journey, journeyCfg),
		entitlements: entitlements.NewService(repos.Entitlement),
		badges:       badges.NewEngine(repos.Badge),
		notify:       notify.NewService(repos.Notification),
	}
}

// WithJourneyService replaces the journey service, e.g. to pin its clock.
func (p *Processor) WithJourneyService(s *journey.Service) *Processor {
	p.journeys = s
	return p
}

func (p *Processor) resolveUser(ctx context.Context, s Subject) (*models.User, error) {
	if s.UserID != 0 {
		u, err := p.users.GetByID(ctx, s.UserID)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	if strings.TrimSpace(s.Email) != "" {
		u, err := p.users.GetByEmail(ctx, s.Email)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

// ---- payments ----

func (p *Processor) VisitPaymentCompleted(ctx context.Context, meta Meta, ev *PaymentCompleted) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.entitlements.Grant(ctx, u.ID, ev.CourseID, ev.ExpiresAt, meta.EventID)
	return err
}

func (p *Processor) VisitPaymentRefunded(ctx context.Context, meta Meta, ev *PaymentRefunded) error {
	return p.revoke(ctx, ev.Subject, ev.CourseID)
}

func (p *Processor) VisitPaymentSubscriptionCancelled(ctx context.Context, meta Meta, ev *PaymentSubscriptionCancelled) error {
	return p.revoke(ctx, ev.Subject, ev.CourseID)
}

func (p *Processor) revoke(ctx context.Context, s Subject, courseID string) error {
	u, err := p.resolveUser(ctx, s)
	if err != nil {
		return err
	}
	_, err = p.entitlements.Revoke(ctx, u.ID, courseID)
	return err
}

// ---- subscription ----

func (p *Processor) VisitSubscriptionCreated(ctx context.Context, meta Meta, ev *SubscriptionCreated) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.Activate(ctx, u.ID, ev.Tier, ev.Window())
	return err
}

func (p *Processor) VisitSubscriptionRenewed(ctx context.Context, meta Meta, ev *SubscriptionRenewed) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.Renew(ctx, u.ID, ev.Tier, ev.Window())
	return err
}

func (p *Processor) VisitSubscriptionUpgraded(ctx context.Context, meta Meta, ev *SubscriptionUpgraded) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	if _, err := p.journeys.Upgrade(ctx, u.ID, ev.Window()); err != nil {
		return err
	}
	return p.awardBadge(ctx, u.ID, badges.SlugResilienzUpgrade)
}

func (p *Processor) VisitSubscriptionDowngraded(ctx context.Context, meta Meta, ev *SubscriptionDowngraded) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.Downgrade(ctx, u.ID, ev.Window())
	return err
}

func (p *Processor) VisitSubscriptionCancelled(ctx context.Context, meta Meta, ev *SubscriptionCancelled) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.End(ctx, u.ID, ev.EndsAt)
	return err
}

func (p *Processor) VisitSubscriptionExpired(ctx context.Context, meta Meta, ev *SubscriptionExpired) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.End(ctx, u.ID, ev.EndsAt)
	return err
}

func (p *Processor) VisitTrialStarted(ctx context.Context, meta Meta, ev *TrialStarted) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.StartTrial(ctx, u.ID, ev.Window())
	return err
}

func (p *Processor) VisitTrialEnded(ctx context.Context, meta Meta, ev *TrialEnded) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	_, err = p.journeys.EndTrial(ctx, u.ID)
	return err
}

func (p *Processor) awardBadge(ctx context.Context, userID uint, slug string) error {
	b, created, err := p.badges.Award(ctx, userID, slug)
	if err != nil || !created {
		return err
	}
	_, err = p.notify.Create(ctx, userID, notify.BadgeEarned(b.Name, b.Description))
	return err
}

// ---- crm ----

func (p *Processor) VisitContactCreated(ctx context.Context, meta Meta, ev *ContactCreated) error {
	return p.upsertContact(ctx, ev.ContactProfile)
}

func (p *Processor) VisitContactUpdated(ctx context.Context, meta Meta, ev *ContactUpdated) error {
	return p.upsertContact(ctx, ev.ContactProfile)
}

func (p *Processor) upsertContact(ctx context.Context, c ContactProfile) error {
	u := &models.User{
		Name:       strings.TrimSpace(c.Name),
		Email:      c.Email,
		ExternalID: strings.TrimSpace(c.ExternalID),
		Phone:      strings.TrimSpace(c.Phone),
		AvatarURL:  strings.TrimSpace(c.AvatarURL),
		Role:       models.ROLE_USER,
		Status:     models.STATUS_ACTIVE,
	}
	if err := p.users.UpsertByEmail(ctx, u); err != nil {
		return fmt.Errorf("upsert contact: %w", err)
	}
	return nil
}

func (p *Processor) VisitMembershipChanged(ctx context.Context, meta Meta, ev *MembershipChanged) error {
	u, err := p.resolveUser(ctx, ev.Subject)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(ev.TenantName)
	if name == "" {
		name = ev.TenantSlug
	}
	tenant := &models.Tenant{Slug: strings.TrimSpace(ev.TenantSlug), Name: name}
	if err := p.tenants.UpsertTenant(ctx, tenant); err != nil {
		return fmt.Errorf("upsert tenant: %w", err)
	}
	membership := &models.Membership{TenantID: tenant.ID, UserID: u.ID, Role: ev.Role}
	if err := p.tenants.UpsertMembership(ctx, membership); err != nil {
		return fmt.Errorf("upsert membership: %w", err)
	}
	return nil
}

// ---- messaging ----

func (p *Processor) VisitMessageNew(ctx context.Context, meta Meta, ev *MessageNew) error {
	return p.deliver(ctx, ev.Subject, notify.NewMessage(ev.SenderName, ev.ConversationID, ev.Message))
}

func (p *Processor) VisitMessageReply(ctx context.Context, meta Meta, ev *MessageReply) error {
	return p.deliver(ctx, ev.Subject, notify.MessageReply(ev.ConversationName, ev.ConversationID, ev.Message))
}

func (p *Processor) VisitContactRequested(ctx context.Context, meta Meta, ev *ContactRequested) error {
	return p.deliver(ctx, ev.Subject, notify.ContactRequest(ev.RequesterName, ev.Message))
}

func (p *Processor) deliver(ctx context.Context, s Subject, c notify.Content) error {
	u, err := p.resolveUser(ctx, s)
	if err != nil {
		return err
	}
	_, err = p.notify.Create(ctx, u.ID, c)
	return err
}
