package webhook

import (
	"strings"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
)

// SignatureHeader carries hex(HMAC-SHA256(secret, rawBody)).
const SignatureHeader = "X-Webhook-Signature"

// Config holds the gateway settings.
type Config struct {
	Secret string
	// RateLimit is the number of deliveries accepted per minute and source IP.
	RateLimit int
}

// LoadConfig reads WEBHOOK_SECRET and WEBHOOK_RATE_LIMIT.
func LoadConfig() Config {
	limit := env.GetEnvInt("WEBHOOK_RATE_LIMIT", 120)
	if limit <= 0 {
		limit = 120
	}
	return Config{
		Secret:    strings.TrimSpace(env.GetEnv("WEBHOOK_SECRET", "")),
		RateLimit: limit,
	}
}
