package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/models"
)

// ListTransactions returns a user's ledger history, newest first.
// Optional query params: type, limit, offset.
func (a *API) ListTransactions(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	q := a.db.Where("user_id = ?", user.ID)
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}

	var total int64
	if err := q.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var txs []models.Transaction
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txs, "total": total})
}
