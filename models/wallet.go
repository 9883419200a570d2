package models

import "time"

// Wallet keeps all per-user balance buckets. Amounts are whole birr,
// coins are the non-monetary reward bucket.
type Wallet struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Main              int64      `gorm:"not null;default:0" json:"main"`
	Play              int64      `gorm:"not null;default:0" json:"play"`
	Coins             int64      `gorm:"not null;default:0" json:"coins"`
	CreditUsed        int64      `gorm:"not null;default:0" json:"credit_used"`
	CreditOutstanding int64      `gorm:"not null;default:0" json:"credit_outstanding"`
	TotalDeposited    int64      `gorm:"not null;default:0" json:"total_deposited"`
	GamesWon          int64      `gorm:"not null;default:0" json:"games_won"`
	LastDepositAt     *time.Time `json:"last_deposit_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
