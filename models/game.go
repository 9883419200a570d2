package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	GameStatusRegistration = "registration"
	GameStatusRunning      = "running"
	GameStatusCompleted    = "completed"
	GameStatusCancelled    = "cancelled"
)

// Game is the durable projection of a round. The server only ever
// writes these rows; nothing in the game flow reads them back.
type Game struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	GameID             string         `gorm:"uniqueIndex;not null" json:"game_id"`
	Stake              int64          `gorm:"index;not null" json:"stake"`
	Status             string         `gorm:"index;not null" json:"status"`
	Players            datatypes.JSON `json:"players"`
	CalledNumbers      datatypes.JSON `json:"called_numbers"`
	Winners            datatypes.JSON `json:"winners"`
	Pot                int64          `json:"pot"`
	SystemCut          int64          `json:"system_cut"`
	PrizePool          int64          `json:"prize_pool"`
	RegistrationEndsAt time.Time      `json:"registration_ends_at"`
	StartedAt          *time.Time     `json:"started_at"`
	FinishedAt         *time.Time     `json:"finished_at"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}
