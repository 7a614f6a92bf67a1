// Package memstore provides in-memory implementations of the repository
// interfaces. They mirror the GORM behaviour the services rely on
// (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey, insert-if-absent) and are
// used by service and controller tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"gorm.io/gorm"
)

// Store holds all tables behind one mutex.
type Store struct {
	mu sync.Mutex

	users         map[uint]*models.User
	settings      map[uint]*models.UserSettings
	events        map[string]*models.WebhookEvent
	journeys      map[uint]*models.UserJourney
	checkIns      []*models.CheckIn
	badges        []*models.UserBadge
	entitlements  []*models.Entitlement
	tenants       map[string]*models.Tenant
	memberships   []*models.Membership
	notifications []*models.Notification

	nextID uint
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    map[uint]*models.User{},
		settings: map[uint]*models.UserSettings{},
		events:   map[string]*models.WebhookEvent{},
		journeys: map[uint]*models.UserJourney{},
		tenants:  map[string]*models.Tenant{},
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:         userRepo{s},
		WebhookEvent: eventRepo{s},
		Journey:      journeyRepo{s},
		CheckIn:      checkInRepo{s},
		Badge:        badgeRepo{s},
		Entitlement:  entitlementRepo{s},
		Tenant:       tenantRepo{s},
		Notification: notificationRepo{s},
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// AddUser inserts a user directly and returns it with an assigned ID.
func (s *Store) AddUser(name, email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{
		ID:     s.id(),
		Name:   name,
		Email:  models.NormalizeEmail(email),
		Role:   models.ROLE_USER,
		Status: models.STATUS_ACTIVE,
	}
	s.users[u.ID] = u
	return u
}

// Journey returns a copy of the stored journey, if any.
func (s *Store) Journey(userID uint) (models.UserJourney, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.journeys[userID]
	if !ok {
		return models.UserJourney{}, false
	}
	return *j, true
}

// Event returns a copy of a stored webhook event.
func (s *Store) Event(id string) (models.WebhookEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return models.WebhookEvent{}, false
	}
	return *e, true
}

// EventCount returns the number of rows in the event log.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Badges returns the earned badge slugs of a user in award order.
func (s *Store) Badges(userID uint) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, b := range s.badges {
		if b.UserID == userID {
			out = append(out, b.BadgeSlug)
		}
	}
	return out
}

// Notifications returns the stored notifications of a user in creation order.
func (s *Store) Notifications(userID uint) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out
}

// Entitlements returns copies of a user's entitlements.
func (s *Store) Entitlements(userID uint) []models.Entitlement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Entitlement
	for _, e := range s.entitlements {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out
}

// Memberships returns copies of a user's memberships.
func (s *Store) Memberships(userID uint) []models.Membership {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Membership
	for _, m := range s.memberships {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out
}

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byEmail(models.NormalizeEmail(email))
}

func (r userRepo) byEmail(email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r userRepo) UpsertByEmail(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Email = models.NormalizeEmail(user.Email)
	if existing, err := r.byEmail(user.Email); err == nil {
		stored := r.s.users[existing.ID]
		stored.Name = user.Name
		stored.ExternalID = user.ExternalID
		stored.Phone = user.Phone
		stored.AvatarURL = user.AvatarURL
		stored.UpdatedAt = time.Now()
		*user = *stored
		return nil
	}
	user.ID = r.s.id()
	if user.Role == "" {
		user.Role = models.ROLE_USER
	}
	if user.Status == "" {
		user.Status = models.STATUS_ACTIVE
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r userRepo) GetByAPIKeyHash(_ context.Context, hash string) (*models.User, *models.UserSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, nil, gorm.ErrRecordNotFound
	}
	for _, us := range r.s.settings {
		if us.APIKeyHash == hash && us.APIKeyRevokedAt == nil {
			u, ok := r.s.users[us.UserID]
			if !ok {
				return nil, nil, gorm.ErrRecordNotFound
			}
			uc, sc := *u, *us
			return &uc, &sc, nil
		}
	}
	return nil, nil, gorm.ErrRecordNotFound
}

func (r userRepo) GetOrCreateSettings(_ context.Context, userID uint) (*models.UserSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	us, ok := r.s.settings[userID]
	if !ok {
		us = &models.UserSettings{ID: r.s.id(), UserID: userID, CreatedAt: time.Now()}
		r.s.settings[userID] = us
	}
	cp := *us
	return &cp, nil
}

func (r userRepo) SaveSettings(_ context.Context, settings *models.UserSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if settings.ID == 0 {
		settings.ID = r.s.id()
	}
	cp := *settings
	r.s.settings[settings.UserID] = &cp
	return nil
}

func (r userRepo) TouchAPIKeyUsage(_ context.Context, settingsID uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, us := range r.s.settings {
		if us.ID == settingsID {
			t := at
			us.APIKeyLastUsedAt = &t
		}
	}
	return nil
}

// ---- webhook events ----

type eventRepo struct{ s *Store }

func (r eventRepo) Create(_ context.Context, event *models.WebhookEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	cp := *event
	cp.Payload = append([]byte(nil), event.Payload...)
	r.s.events[event.ID] = &cp
	return nil
}

func (r eventRepo) GetByID(_ context.Context, id string) (*models.WebhookEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r eventRepo) MarkProcessed(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events[id]; ok && e.ProcessedAt == nil {
		t := at
		e.ProcessedAt = &t
	}
	return nil
}

func (r eventRepo) MarkFailed(_ context.Context, id string, message string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events[id]; ok {
		msg := message
		e.Error = &msg
	}
	return nil
}

func (r eventRepo) List(_ context.Context, filter repository.WebhookEventFilter) ([]models.WebhookEvent, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []models.WebhookEvent
	for _, e := range r.s.events {
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		if filter.Status != "" && e.Status() != filter.Status {
			continue
		}
		matched = append(matched, *e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ReceivedAt.After(matched[j].ReceivedAt) })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []models.WebhookEvent{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r eventRepo) ListReceivedBetween(_ context.Context, from, to time.Time) ([]models.WebhookEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.WebhookEvent
	for _, e := range r.s.events {
		if !e.ReceivedAt.Before(from) && e.ReceivedAt.Before(to) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

// ---- journeys ----

type journeyRepo struct{ s *Store }

func (r journeyRepo) GetOrCreate(_ context.Context, userID uint) (*models.UserJourney, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.journeys[userID]
	if !ok {
		j = &models.UserJourney{
			ID:              r.s.id(),
			UserID:          userID,
			State:           models.JourneyStateOnboardingStart,
			OnboardingStage: models.JourneyStateOnboardingStart,
			CurrentLevel:    1,
			CreatedAt:       time.Now(),
		}
		r.s.journeys[userID] = j
	}
	cp := *j
	return &cp, nil
}

func (r journeyRepo) SaveSubscription(_ context.Context, journey *models.UserJourney) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.journeys[journey.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	j.SubscriptionState = journey.SubscriptionState
	j.SubscriptionTier = journey.SubscriptionTier
	j.TrialStartedAt = journey.TrialStartedAt
	j.TrialEndsAt = journey.TrialEndsAt
	j.SubscriptionStartAt = journey.SubscriptionStartAt
	j.SubscriptionEndsAt = journey.SubscriptionEndsAt
	j.OnboardingStage = journey.OnboardingStage
	j.State = journey.State
	j.UpdatedAt = time.Now()
	return nil
}

func (r journeyRepo) SaveProgress(_ context.Context, journey *models.UserJourney) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	j, ok := r.s.journeys[journey.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	j.CheckInsCompleted = journey.CheckInsCompleted
	j.ModulesCompleted = journey.ModulesCompleted
	j.DaysActive = journey.DaysActive
	j.CurrentLevel = journey.CurrentLevel
	j.OnboardingStage = journey.OnboardingStage
	if journey.TrialStartedAt != nil && j.TrialStartedAt == nil {
		j.TrialStartedAt = journey.TrialStartedAt
		j.TrialEndsAt = journey.TrialEndsAt
	}
	if j.SubscriptionTier == nil && j.SubscriptionState == nil {
		j.State = journey.State
	}
	j.UpdatedAt = time.Now()
	return nil
}

// ---- check-ins ----

type checkInRepo struct{ s *Store }

func (r checkInRepo) Create(_ context.Context, checkIn *models.CheckIn) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.checkIns {
		if c.UserID == checkIn.UserID && c.CheckInDay == checkIn.CheckInDay {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *checkIn
	r.s.checkIns = append(r.s.checkIns, &cp)
	return nil
}

func (r checkInRepo) FindByUserAndDay(_ context.Context, userID uint, day string) (*models.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.checkIns {
		if c.UserID == userID && c.CheckInDay == day {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r checkInRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.checkIns {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r checkInRepo) ListDays(_ context.Context, userID uint) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var days []string
	for _, c := range r.s.checkIns {
		if c.UserID == userID {
			days = append(days, c.CheckInDay)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	return days, nil
}

func (r checkInRepo) byUserDesc(userID uint) []models.CheckIn {
	var out []models.CheckIn
	for _, c := range r.s.checkIns {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckedInAt.After(out[j].CheckedInAt) })
	return out
}

func (r checkInRepo) ListRecent(_ context.Context, userID uint, limit int) ([]models.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.byUserDesc(userID)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r checkInRepo) ListSince(_ context.Context, userID uint, since time.Time) ([]models.CheckIn, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.CheckIn
	for _, c := range r.byUserDesc(userID) {
		if !c.CheckedInAt.Before(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

// ---- badges ----

type badgeRepo struct{ s *Store }

func (r badgeRepo) Award(_ context.Context, userID uint, slug string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.badges {
		if b.UserID == userID && b.BadgeSlug == slug {
			return false, nil
		}
	}
	r.s.badges = append(r.s.badges, &models.UserBadge{ID: r.s.id(), UserID: userID, BadgeSlug: slug, EarnedAt: at})
	return true, nil
}

func (r badgeRepo) ListByUser(_ context.Context, userID uint) ([]models.UserBadge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.UserBadge
	for _, b := range r.s.badges {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

// ---- entitlements ----

type entitlementRepo struct{ s *Store }

func (r entitlementRepo) Upsert(_ context.Context, entitlement *models.Entitlement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entitlement.RevokedAt = nil
	for _, e := range r.s.entitlements {
		if e.UserID == entitlement.UserID && e.CourseID == entitlement.CourseID {
			e.GrantedAt = entitlement.GrantedAt
			e.ExpiresAt = entitlement.ExpiresAt
			e.RevokedAt = nil
			e.SourceEventID = entitlement.SourceEventID
			e.UpdatedAt = time.Now()
			*entitlement = *e
			return nil
		}
	}
	entitlement.ID = r.s.id()
	cp := *entitlement
	r.s.entitlements = append(r.s.entitlements, &cp)
	return nil
}

func (r entitlementRepo) Revoke(_ context.Context, userID uint, courseID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, e := range r.s.entitlements {
		if e.UserID != userID || e.RevokedAt != nil {
			continue
		}
		if courseID != "" && e.CourseID != courseID {
			continue
		}
		t := at
		e.RevokedAt = &t
		n++
	}
	return n, nil
}

func (r entitlementRepo) ListByUser(_ context.Context, userID uint) ([]models.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Entitlement
	for _, e := range r.s.entitlements {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out, nil
}

// ---- tenants ----

type tenantRepo struct{ s *Store }

func (r tenantRepo) UpsertTenant(_ context.Context, tenant *models.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tenants[tenant.Slug]; ok {
		t.Name = tenant.Name
		*tenant = *t
		return nil
	}
	tenant.ID = r.s.id()
	cp := *tenant
	r.s.tenants[tenant.Slug] = &cp
	return nil
}

func (r tenantRepo) UpsertMembership(_ context.Context, membership *models.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.memberships {
		if m.TenantID == membership.TenantID && m.UserID == membership.UserID {
			m.Role = membership.Role
			*membership = *m
			return nil
		}
	}
	membership.ID = r.s.id()
	cp := *membership
	r.s.memberships = append(r.s.memberships, &cp)
	return nil
}

// ---- notifications ----

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, notification *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification.ID = r.s.id()
	notification.CreatedAt = time.Now()
	cp := *notification
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID uint, limit int) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID == userID {
			out = append(out, *n)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
