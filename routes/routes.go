package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/controllers"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	g := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	g.POST("/users", api.RegisterUser)
	g.GET("/users/:telegram_id", api.GetUser)
	g.PATCH("/users/:telegram_id/phone", api.UpdatePhone)

	// ----------------------
	// Wallet routes
	// ----------------------
	g.GET("/users/:telegram_id/wallet", api.GetWallet)
	g.POST("/users/:telegram_id/wallet/convert", api.Convert)
	g.POST("/users/:telegram_id/wallet/transfer", api.Transfer)
	g.POST("/users/:telegram_id/wallet/deposit", api.Deposit)
	g.POST("/users/:telegram_id/wallet/withdraw", api.Withdraw)
	g.GET("/users/:telegram_id/transactions", api.ListTransactions)

	// ----------------------
	// Game routes
	// ----------------------
	g.GET("/games", api.ListGames)
	g.GET("/games/:game_id", api.GetGame)
	g.GET("/rooms", api.ListRooms)
}
