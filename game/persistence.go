package game

import "time"

// GamePlayer is one committed participant in the durable projection.
type GamePlayer struct {
	UserID     uint `json:"userId"`
	CardNumber int  `json:"cardNumber"`
}

// GameUpdate carries a checkpoint of the round for the durable store.
type GameUpdate struct {
	Status        string
	Players       []GamePlayer
	Pot           int64
	SystemCut     int64
	PrizePool     int64
	CalledNumbers []int
	Winners       []Winner
	StartedAt     *time.Time
	FinishedAt    *time.Time
}

// Persistence is the write-behind sink for game snapshots. Both calls
// are best-effort and idempotent by gameID; the game flow never waits
// on them and never reads them back.
type Persistence interface {
	Create(gameID string, stake int64, registrationEndsAt time.Time) error
	Update(gameID string, update GameUpdate) error
}

// NopPersistence discards every snapshot.
type NopPersistence struct{}

func (NopPersistence) Create(string, int64, time.Time) error { return nil }
func (NopPersistence) Update(string, GameUpdate) error       { return nil }
