package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gateway records inbound events and dispatches them to a Handler. The
// log, mutate and mark steps are not wrapped in one transaction: a crash
// between them leaves a pending row that can be replayed.
type Gateway struct {
	events  repository.WebhookEventRepository
	handler Handler
	now     func() time.Time
	newID   func() string
}

// NewGateway creates a gateway writing to events and dispatching to handler.
func NewGateway(events repository.WebhookEventRepository, handler Handler) *Gateway {
	return &Gateway{
		events:  events,
		handler: handler,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// WithClock replaces the time source.
func (g *Gateway) WithClock(now func() time.Time) *Gateway {
	g.now = now
	return g
}

// Ingest validates raw against the schema of source and appends one pending
// row to the event log. Schema violations return a *SchemaError and write
// nothing.
func (g *Gateway) Ingest(ctx context.Context, source string, raw []byte) (*models.WebhookEvent, Event, error) {
	ev, err := Parse(source, raw)
	if err != nil {
		return nil, nil, err
	}

	record := &models.WebhookEvent{
		ID:         g.newID(),
		Source:     source,
		EventType:  ev.Type(),
		Payload:    datatypes.JSON(append([]byte(nil), raw...)),
		ReceivedAt: g.now().UTC(),
	}
	if err := g.events.Create(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("record webhook event: %w", err)
	}
	return record, ev, nil
}

// Dispatch applies ev and stores the outcome on record. A missing subject
// user yields an error matching ErrUserNotFound; any other failure is
// returned as *HandlerError.
func (g *Gateway) Dispatch(ctx context.Context, record *models.WebhookEvent, ev Event) error {
	if record.ProcessedAt != nil {
		return ErrAlreadyProcessed
	}

	meta := Meta{EventID: record.ID, ReceivedAt: record.ReceivedAt}
	if err := ev.accept(ctx, meta, g.handler); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			g.markFailed(ctx, record, ErrUserNotFound.Error())
			log.Warnf("[Webhook] %s %s (%s): user not found", record.Source, record.EventType, record.ID)
			return err
		}
		g.markFailed(ctx, record, err.Error())
		log.Errorf("[Webhook] %s %s (%s) failed: %v", record.Source, record.EventType, record.ID, err)
		return &HandlerError{EventID: record.ID, Err: err}
	}

	now := g.now().UTC()
	if err := g.events.MarkProcessed(ctx, record.ID, now); err != nil {
		err = fmt.Errorf("mark processed: %w", err)
		g.markFailed(ctx, record, err.Error())
		log.Errorf("[Webhook] %s %s (%s) failed: %v", record.Source, record.EventType, record.ID, err)
		return &HandlerError{EventID: record.ID, Err: err}
	}
	record.ProcessedAt = &now
	log.Infof("[Webhook] Processed %s %s (%s)", record.Source, record.EventType, record.ID)
	return nil
}

func (g *Gateway) markFailed(ctx context.Context, record *models.WebhookEvent, msg string) {
	if err := g.events.MarkFailed(ctx, record.ID, msg); err != nil {
		log.Errorf("[Webhook] Failed to store error for %s: %v", record.ID, err)
		return
	}
	record.Error = &msg
}

// Process runs Ingest followed by Dispatch. The returned record is nil only
// when ingestion failed.
func (g *Gateway) Process(ctx context.Context, source string, raw []byte) (*models.WebhookEvent, error) {
	record, ev, err := g.Ingest(ctx, source, raw)
	if err != nil {
		return nil, err
	}
	return record, g.Dispatch(ctx, record, ev)
}

// Replay re-dispatches a stored event against its own row. Processed events
// are refused with ErrAlreadyProcessed.
func (g *Gateway) Replay(ctx context.Context, id string) (*models.WebhookEvent, error) {
	record, err := g.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if record.ProcessedAt != nil {
		return record, ErrAlreadyProcessed
	}

	ev, err := Parse(record.Source, record.Payload)
	if err != nil {
		g.markFailed(ctx, record, err.Error())
		return record, err
	}
	log.Infof("[Webhook] Replaying %s %s (%s)", record.Source, record.EventType, record.ID)
	return record, g.Dispatch(ctx, record, ev)
}

// List returns a page of the event log, newest first.
func (g *Gateway) List(ctx context.Context, filter repository.WebhookEventFilter) ([]models.WebhookEvent, int64, error) {
	return g.events.List(ctx, filter)
}
