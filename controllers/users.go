package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/models"
	"gorm.io/gorm"
)

// RegisterUser registers a new user (from Telegram)
func (a *API) RegisterUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := a.db.Where("telegram_id = ?", user.TelegramID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	if err := a.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by telegram_id
func (a *API) GetUser(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdatePhone updates a user's phone number
func (a *API) UpdatePhone(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}

	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.db.Model(&user).Update("phone", req.Phone).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update phone"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"telegram_id": user.TelegramID,
		"phone":       req.Phone,
	})
}

func (a *API) userByTelegramParam(c *gin.Context) (models.User, bool) {
	tid, err := strconv.ParseInt(c.Param("telegram_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid telegram_id"})
		return models.User{}, false
	}

	var user models.User
	if err := a.db.Where("telegram_id = ?", tid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return models.User{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return models.User{}, false
	}
	return user, true
}
