package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/repository"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/database"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/eventarchive"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/journey"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/webhook"
)

const defaultExportDays = 1

func main() {
	env.SetupEnvFile()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	database.SetupDatabase()
	repos := repository.NewRepositories(database.GetDB())
	ctx := context.Background()

	switch os.Args[1] {
	case "export":
		days := defaultExportDays
		if len(os.Args) >= 4 && os.Args[2] == "--days" {
			n, err := strconv.Atoi(os.Args[3])
			if err != nil || n <= 0 {
				log.Fatalf("Invalid number of days: %s", os.Args[3])
			}
			days = n
		}
		if err := export(ctx, repos, days); err != nil {
			log.Fatalf("Export failed: %v", err)
		}

	case "replay":
		if len(os.Args) < 3 {
			log.Fatalf("Please pass an event id")
		}
		gateway := webhook.NewGateway(repos.WebhookEvent, webhook.NewProcessor(repos, journey.LoadConfig()))
		record, err := gateway.Replay(ctx, os.Args[2])
		switch {
		case errors.Is(err, webhook.ErrEventNotFound):
			log.Fatalf("Event %s does not exist", os.Args[2])
		case errors.Is(err, webhook.ErrAlreadyProcessed):
			log.Fatalf("Event %s was already processed at %s", record.ID, record.ProcessedAt.Format(time.RFC3339))
		case err != nil:
			log.Fatalf("Replay of %s failed: %v", os.Args[2], err)
		}
		log.Printf("Event %s (%s %s) processed", record.ID, record.Source, record.EventType)

	default:
		printUsage()
		os.Exit(1)
	}
}

// export uploads the events of the last days full UTC days up to now.
func export(ctx context.Context, repos *repository.Repositories, days int) error {
	cfg, err := eventarchive.LoadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsEnabled() {
		return errors.New("event archive is disabled, set S3_ARCHIVE_ENABLED=true")
	}
	client, err := eventarchive.NewClient(ctx, cfg)
	if err != nil {
		return err
	}

	to := time.Now().UTC()
	from := to.Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))
	result, err := client.Export(ctx, repos.WebhookEvent, from, to)
	if err != nil {
		return err
	}
	log.Printf("Exported %d events (%d bytes) to %s", result.Events, result.Bytes, result.Key)
	return nil
}

func printUsage() {
	fmt.Println("Usage: go run cmd/eventlog/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  export [--days N] - upload the event log of the last N days to S3 as JSON lines")
	fmt.Println("  replay <id>       - re-dispatch a stored, unprocessed webhook event")
}
