package services

import (
	"encoding/json"
	"time"

	"github.com/luckybingo/bingo-server/game"
	"github.com/luckybingo/bingo-server/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameStore is the GORM-backed write-behind sink for game snapshots.
// The room never reads these rows; they serve history and reporting.
type GameStore struct {
	db *gorm.DB
}

func NewGameStore(db *gorm.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) Create(gameID string, stake int64, registrationEndsAt time.Time) error {
	g := models.Game{
		GameID:             gameID,
		Stake:              stake,
		Status:             models.GameStatusRegistration,
		Players:            datatypes.JSON([]byte("[]")),
		CalledNumbers:      datatypes.JSON([]byte("[]")),
		Winners:            datatypes.JSON([]byte("[]")),
		RegistrationEndsAt: registrationEndsAt,
	}
	// Idempotent by gameID: a replayed create is a no-op.
	return s.db.Where("game_id = ?", gameID).FirstOrCreate(&g).Error
}

func (s *GameStore) Update(gameID string, u game.GameUpdate) error {
	updates := map[string]interface{}{}
	if u.Status != "" {
		updates["status"] = u.Status
	}
	if u.Players != nil {
		updates["players"] = mustJSON(u.Players)
	}
	if u.CalledNumbers != nil {
		updates["called_numbers"] = mustJSON(u.CalledNumbers)
	}
	if u.Winners != nil {
		updates["winners"] = mustJSON(u.Winners)
	}
	if u.Pot > 0 {
		updates["pot"] = u.Pot
		updates["system_cut"] = u.SystemCut
		updates["prize_pool"] = u.PrizePool
	}
	if u.StartedAt != nil {
		updates["started_at"] = u.StartedAt
	}
	if u.FinishedAt != nil {
		updates["finished_at"] = u.FinishedAt
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.Model(&models.Game{}).Where("game_id = ?", gameID).Updates(updates).Error
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("null"))
	}
	return datatypes.JSON(b)
}
