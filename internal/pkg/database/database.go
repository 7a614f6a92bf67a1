package database

import "gorm.io/gorm"

// DB is the process-wide connection opened by SetupDatabase.
var DB *gorm.DB

// GetDB returns the shared connection. It is nil before SetupDatabase ran.
func GetDB() *gorm.DB {
	return DB
}
