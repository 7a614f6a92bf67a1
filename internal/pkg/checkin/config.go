package checkin

import (
	"time"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/gofiber/fiber/v2/log"
)

const defaultTimezone = "Europe/Berlin"

// Config holds check-in settings.
type Config struct {
	// DefaultLocation applies to users without a stored timezone.
	DefaultLocation *time.Location
}

// LoadConfig reads APP_TIMEZONE.
func LoadConfig() Config {
	name := env.GetEnv("APP_TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warnf("[CheckIn] Unknown APP_TIMEZONE %q, using UTC", name)
		loc = time.UTC
	}
	return Config{DefaultLocation: loc}
}
