package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/models"
)

// ListGames returns recent game rows, newest first.
func (a *API) ListGames(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := a.db.Order("created_at DESC").Limit(limit)
	if stake, err := strconv.ParseInt(c.Query("stake"), 10, 64); err == nil {
		q = q.Where("stake = ?", stake)
	}

	var games []models.Game
	if err := q.Find(&games).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGame returns one game by its public game id.
func (a *API) GetGame(c *gin.Context) {
	var g models.Game
	if err := a.db.Where("game_id = ?", c.Param("game_id")).First(&g).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// ListRooms reports the live state of every room created so far.
func (a *API) ListRooms(c *gin.Context) {
	type roomInfo struct {
		Stake    int64  `json:"stake"`
		Phase    string `json:"phase"`
		GameID   string `json:"gameId"`
		Reserved int    `json:"reserved"`
		Sockets  int    `json:"sockets"`
	}
	rooms := a.registry.Rooms()
	out := make([]roomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, roomInfo{
			Stake:    r.Stake,
			Phase:    string(r.Phase()),
			GameID:   r.GameID(),
			Reserved: r.ReservedCount(),
			Sockets:  r.Sockets(),
		})
	}
	c.JSON(http.StatusOK, out)
}
