package database

import (
	"fmt"
	"time"

	"github.com/ManuelReschke/Lebensenergie/app/models"
	"github.com/ManuelReschke/Lebensenergie/internal/pkg/env"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DSN builds the MySQL data source name from the DB_* settings.
func DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}

// Models lists every table owned by this service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserSettings{},
		&models.Tenant{},
		&models.Membership{},
		&models.WebhookEvent{},
		&models.UserJourney{},
		&models.CheckIn{},
		&models.UserBadge{},
		&models.Entitlement{},
		&models.Notification{},
	}
}

func SetupDatabase() {
	var err error
	dsn := DSN()

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{
			// unique violations surface as gorm.ErrDuplicatedKey
			TranslateError: true,
		})
		if err == nil {
			if env.GetEnvBool("DB_AUTO_MIGRATE", true) {
				if mErr := DB.AutoMigrate(Models()...); mErr != nil {
					log.Errorf("[Database] AutoMigrate failed: %v", mErr)
				}
			}
			return
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Infof("[Database] Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// MigrationURL is the golang-migrate database URL for the DB_* settings.
func MigrationURL() string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)
}
