package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/luckybingo/bingo-server/game"
	"github.com/luckybingo/bingo-server/utils/logger"
)

// clientMessage is the inbound frame. Fields beyond Type are only
// meaningful for the message types that carry them.
type clientMessage struct {
	Type       string `json:"type"`
	Stake      int64  `json:"stake,omitempty"`
	CardNumber int    `json:"cardNumber,omitempty"`
}

// Client pairs one websocket connection with its current room.
type Client struct {
	userID   uint
	conn     *websocket.Conn
	registry *game.Registry
	room     *game.Room
	send     chan []byte
	once     sync.Once

	mu     sync.Mutex
	closed bool
}

func newClient(userID uint, conn *websocket.Conn, registry *game.Registry) *Client {
	return &Client{
		userID:   userID,
		conn:     conn,
		registry: registry,
		send:     make(chan []byte, 32),
	}
}

// Deliver implements game.Subscriber. Slow consumers lose messages
// instead of stalling the room.
func (c *Client) Deliver(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		logger.Warnf("[Client %d] dropping message, send buffer full", c.userID)
	}
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		c.conn.Close()
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		if c.room != nil {
			c.room.Leave(c.userID, c)
		}
		c.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %d] disconnected", c.userID)
			} else {
				logger.Warnf("[Client %d] read error: %v", c.userID, err)
			}
			return
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Client %d] recovered from panic: %v", c.userID, r)
		}
	}()

	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warnf("[Client %d] invalid message: %v", c.userID, err)
		return
	}

	switch msg.Type {
	case "join_room":
		c.joinRoom(msg.Stake)
	case "select_card":
		if c.room != nil {
			c.room.SelectCard(c.userID, msg.CardNumber)
		}
	case "start_registration":
		if c.room != nil {
			c.room.StartRegistration(c.userID)
		}
	case "bingo_claim":
		if c.room != nil {
			c.room.ClaimBingo(c.userID)
		}
	default:
		logger.Warnf("[Client %d] unknown message type %q", c.userID, msg.Type)
	}
}

func (c *Client) joinRoom(stake int64) {
	room, ok := c.registry.Room(stake)
	if !ok {
		logger.Warnf("[Client %d] join_room with unsupported stake %d", c.userID, stake)
		return
	}
	if c.room == room {
		c.room.SendSnapshot(c.userID)
		return
	}
	if c.room != nil {
		c.room.Leave(c.userID, c)
	}
	c.room = room
	room.Join(c.userID, c)
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warnf("[Client %d] write error: %v", c.userID, err)
			return
		}
	}
}
