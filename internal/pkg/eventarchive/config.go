package eventarchive

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
)

// Config holds the S3 settings of the event log archive
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // Optional for S3-compatible services
	Prefix          string
	Enabled         bool
}

// LoadConfig loads S3 configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "eu-central-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		Prefix:          strings.Trim(env.GetEnv("S3_EVENT_PREFIX", "webhook-events"), "/"),
		Enabled:         env.GetEnvBool("S3_ARCHIVE_ENABLED", false),
	}

	// Validate required fields if the archive is enabled
	if config.Enabled {
		if config.AccessKeyID == "" {
			return nil, errors.New("S3_ACCESS_KEY_ID is required when the event archive is enabled")
		}
		if config.SecretAccessKey == "" {
			return nil, errors.New("S3_SECRET_ACCESS_KEY is required when the event archive is enabled")
		}
		if config.BucketName == "" {
			return nil, errors.New("S3_BUCKET_NAME is required when the event archive is enabled")
		}
	}

	return config, nil
}

// IsEnabled returns true if the archive is enabled
func (c *Config) IsEnabled() bool {
	return c.Enabled
}

// ObjectKey returns the key of an export covering [from, to).
// Format: <prefix>/YYYY/MM/DD/events-<from>-<to>.jsonl
func (c *Config) ObjectKey(from, to time.Time) string {
	from, to = from.UTC(), to.UTC()
	key := fmt.Sprintf("%04d/%02d/%02d/events-%s-%s.jsonl",
		from.Year(), from.Month(), from.Day(),
		from.Format("20060102T150405Z"), to.Format("20060102T150405Z"))
	if c.Prefix == "" {
		return key
	}
	return c.Prefix + "/" + key
}
