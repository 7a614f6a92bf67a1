package badges

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/gofiber/fiber/v2/log"
)

// ErrUnknownBadge is returned by Award for slugs outside the catalog.
var ErrUnknownBadge = errors.New("unknown badge")

// Engine evaluates the catalog and awards badges idempotently.
type Engine struct {
	repo repository.BadgeRepository
	now  func() time.Time
}

func NewEngine(repo repository.BadgeRepository) *Engine {
	return &Engine{repo: repo, now: time.Now}
}

// WithClock replaces the time source.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Evaluate tests every predicate in catalog order and returns the badges
// that were newly awarded by this call.
func (e *Engine) Evaluate(ctx context.Context, userID uint, in Inputs) ([]Badge, error) {
	var awarded []Badge
	for _, b := range catalog {
		if b.Predicate == nil || !b.Predicate(in) {
			continue
		}
		created, err := e.repo.Award(ctx, userID, b.Slug, e.now())
		if err != nil {
			return awarded, fmt.Errorf("award %s: %w", b.Slug, err)
		}
		if created {
			log.Infof("[Badges] User %d earned %s", userID, b.Slug)
			awarded = append(awarded, b)
		}
	}
	return awarded, nil
}

// Award grants a single badge. It reports whether the badge was new.
func (e *Engine) Award(ctx context.Context, userID uint, slug string) (Badge, bool, error) {
	b, ok := Lookup(slug)
	if !ok {
		return Badge{}, false, fmt.Errorf("%w: %s", ErrUnknownBadge, slug)
	}
	created, err := e.repo.Award(ctx, userID, slug, e.now())
	if err != nil {
		return b, false, fmt.Errorf("award %s: %w", slug, err)
	}
	if created {
		log.Infof("[Badges] User %d earned %s", userID, slug)
	}
	return b, created, nil
}
