package config

import (
	"log"

	"github.com/luckybingo/bingo-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// SetupDatabase connects to DB and runs migrations
func SetupDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	log.Println("✅ Database connected and migrated")
	return db
}

// Migrate runs AutoMigrate for every model the server persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Transaction{},
		&models.Game{},
		&models.Deposit{},
	)
}
