package services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/luckybingo/bingo-server/game"
	"github.com/luckybingo/bingo-server/models"
	"github.com/luckybingo/bingo-server/utils/logger"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errUnknownUser = errors.New("unknown user")

// UserResolver turns the gateway-verified token into a stable user id.
// Connections that fail resolution never reach room logic.
type UserResolver interface {
	Resolve(token string) (uint, error)
}

// TelegramResolver resolves the telegram id the auth gateway stamped on
// the connection URL against the users table.
type TelegramResolver struct {
	db *gorm.DB
}

func NewTelegramResolver(db *gorm.DB) *TelegramResolver {
	return &TelegramResolver{db: db}
}

func (r *TelegramResolver) Resolve(token string) (uint, error) {
	telegramID, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, errUnknownUser
	}
	var user models.User
	if err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return 0, errUnknownUser
	}
	return user.ID, nil
}

// WSHandler upgrades connections and attaches them to their stake room.
type WSHandler struct {
	registry *game.Registry
	resolver UserResolver
}

func NewWSHandler(registry *game.Registry, resolver UserResolver) *WSHandler {
	return &WSHandler{registry: registry, resolver: resolver}
}

// Handle serves GET /ws/:stake?token=...
func (h *WSHandler) Handle(c *gin.Context) {
	stake, err := strconv.ParseInt(c.Param("stake"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stake"})
		return
	}
	room, ok := h.registry.Room(stake)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "stake not supported"})
		return
	}

	userID, err := h.resolver.Resolve(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := newClient(userID, conn, h.registry)
	client.room = room

	go client.writePump()
	go client.readPump()

	room.Join(userID, client)
	logger.Infof("[WS] new client: userID=%d stake=%d", userID, stake)
}
