package eventarchive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

// ObjectPutter is the subset of the S3 API the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Client uploads event log exports to S3
type Client struct {
	s3     ObjectPutter
	config *Config
}

// NewClient creates an S3 backed archive client
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("event archive is disabled")
	}

	awsConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			o.UsePathStyle = true
		}
	})

	log.Infof("[EventArchive] Initialized S3 client for bucket: %s", cfg.BucketName)
	return NewClientWith(s3Client, cfg), nil
}

// NewClientWith creates a client on top of an existing S3 API implementation.
func NewClientWith(api ObjectPutter, cfg *Config) *Client {
	return &Client{s3: api, config: cfg}
}

// ExportResult describes one uploaded export.
type ExportResult struct {
	Key    string
	Events int
	Bytes  int
}

// Export uploads every event received in [from, to) as JSON lines. An empty
// range uploads nothing.
func (c *Client) Export(ctx context.Context, events repository.WebhookEventRepository, from, to time.Time) (*ExportResult, error) {
	list, err := events.ListReceivedBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	key := c.config.ObjectKey(from, to)
	if len(list) == 0 {
		log.Infof("[EventArchive] No events between %s and %s", from.Format(time.RFC3339), to.Format(time.RFC3339))
		return &ExportResult{Key: key}, nil
	}

	body, err := EncodeJSONL(list)
	if err != nil {
		return nil, err
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/x-ndjson"),
		Metadata: map[string]string{
			"event-count": fmt.Sprintf("%d", len(list)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Infof("[EventArchive] Uploaded %d events to s3://%s/%s", len(list), c.config.BucketName, key)
	return &ExportResult{Key: key, Events: len(list), Bytes: len(body)}, nil
}
