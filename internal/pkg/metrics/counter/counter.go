// Package counter keeps per-day webhook outcome counters in Redis hashes.
package counter

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	webhookCountersKey = "lbe:counters:webhooks:"
	counterTTL         = 35 * 24 * time.Hour
	dayLayout          = "2006-01-02"
)

// Outcome of a webhook delivery as seen by the sender.
type Outcome string

const (
	OutcomeProcessed    Outcome = "processed"
	OutcomeRejected     Outcome = "rejected"
	OutcomeUserNotFound Outcome = "user_not_found"
	OutcomeFailed       Outcome = "failed"
)

// WebhookCounter counts deliveries per UTC day, source and outcome.
type WebhookCounter struct {
	rdb *redis.Client
}

// NewWebhookCounter creates a counter on rdb. A nil client disables counting.
func NewWebhookCounter(rdb *redis.Client) *WebhookCounter {
	return &WebhookCounter{rdb: rdb}
}

func dayKey(day string) string {
	return webhookCountersKey + day
}

// Add increments the counter of (source, outcome) for the day of at.
func (c *WebhookCounter) Add(ctx context.Context, source string, outcome Outcome, at time.Time) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	key := dayKey(at.UTC().Format(dayLayout))
	pipe := c.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, source+":"+string(outcome), 1)
	pipe.Expire(ctx, key, counterTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// DayCounts maps source to outcome to count.
type DayCounts map[string]map[Outcome]int64

// Day returns the counters of one UTC day (YYYY-MM-DD).
func (c *WebhookCounter) Day(ctx context.Context, day string) (DayCounts, error) {
	out := DayCounts{}
	if c == nil || c.rdb == nil {
		return out, nil
	}
	data, err := c.rdb.HGetAll(ctx, dayKey(day)).Result()
	if err != nil {
		return nil, err
	}
	for field, raw := range data {
		source, outcome, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		if out[source] == nil {
			out[source] = map[Outcome]int64{}
		}
		out[source][Outcome(outcome)] = n
	}
	return out, nil
}

// Series is the counters of one day.
type Series struct {
	Day    string    `json:"day"`
	Counts DayCounts `json:"counts"`
}

// LastDays returns the counters of the last days UTC days ending at now,
// newest first.
func (c *WebhookCounter) LastDays(ctx context.Context, now time.Time, days int) ([]Series, error) {
	if days <= 0 {
		days = 1
	}
	out := make([]Series, 0, days)
	for i := 0; i < days; i++ {
		day := now.UTC().AddDate(0, 0, -i).Format(dayLayout)
		counts, err := c.Day(ctx, day)
		if err != nil {
			return nil, err
		}
		out = append(out, Series{Day: day, Counts: counts})
	}
	return out, nil
}
