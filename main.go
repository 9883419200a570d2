package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/config"
	"github.com/luckybingo/bingo-server/controllers"
	"github.com/luckybingo/bingo-server/game"
	"github.com/luckybingo/bingo-server/routes"
	"github.com/luckybingo/bingo-server/services"
	"github.com/luckybingo/bingo-server/utils/logger"
	"github.com/luckybingo/bingo-server/wallet"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(settings config.Settings, api *controllers.API, ws *services.WSHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, api)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket lobby endpoint
	r.GET("/ws/:stake", ws.Handle)

	return r
}

func main() {
	settings := config.Load()

	db := config.SetupDatabase(settings.DatabaseURL)

	ledger := wallet.NewLedger(wallet.NewGormStore(db), wallet.Params{
		CompletionBonusCoins: settings.CompletionBonus,
		DepositGiftDivisor:   settings.DepositGiftDivisor,
	})

	registry := game.NewRegistry(
		game.Config{
			RegistrationWindow: settings.RegistrationWindow,
			DrawInterval:       settings.DrawInterval,
			AnnounceCooldown:   settings.AnnounceCooldown,
		},
		game.NewCatalog(),
		ledger,
		services.NewGameStore(db),
		settings.Stakes,
	)

	api := controllers.New(db, ledger, registry)
	ws := services.NewWSHandler(registry, services.NewTelegramResolver(db))

	router := setupRouter(settings, api, ws)

	logger.Infof("🚀 Bingo server starting on port %s (stakes %v)", settings.Port, settings.Stakes)
	if err := router.Run(":" + settings.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
