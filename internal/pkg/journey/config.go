package journey

import (
	"time"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
)

const defaultTrialDays = 7

// Config holds journey settings.
type Config struct {
	TrialDays int
}

// LoadConfig reads TRIAL_DAYS, falling back to seven days.
func LoadConfig() Config {
	days := env.GetEnvInt("TRIAL_DAYS", defaultTrialDays)
	if days <= 0 {
		days = defaultTrialDays
	}
	return Config{TrialDays: days}
}

// TrialLength returns the configured trial window length.
func (c Config) TrialLength() time.Duration {
	days := c.TrialDays
	if days <= 0 {
		days = defaultTrialDays
	}
	return time.Duration(days) * 24 * time.Hour
}
