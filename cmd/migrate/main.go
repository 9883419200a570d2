package main

import (
	"log"

	"github.com/luckybingo/bingo-server/config"
)

func main() {
	settings := config.Load()
	config.SetupDatabase(settings.DatabaseURL) // connects + migrates
	log.Println("✅ Database migration completed successfully")
}
