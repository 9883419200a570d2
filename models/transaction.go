package models

import (
	"time"

	"gorm.io/datatypes"
)

type TransactionType string

const (
	StakeTransaction      TransactionType = "stake"
	WinTransaction        TransactionType = "win"
	DepositTransaction    TransactionType = "deposit"
	WithdrawalTransaction TransactionType = "withdrawal"
	ConversionTransaction TransactionType = "conversion"
	TransferTransaction   TransactionType = "transfer"
	BonusTransaction      TransactionType = "completion_bonus"
)

// Transaction is an append-only ledger entry. Rows are never updated
// or deleted once written.
type Transaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	Type          TransactionType `gorm:"index;not null" json:"type"`
	Amount        int64           `gorm:"not null" json:"amount"`
	GameID        string          `gorm:"index" json:"game_id,omitempty"`
	Description   string          `json:"description"`
	BalanceBefore datatypes.JSON  `json:"balance_before"`
	BalanceAfter  datatypes.JSON  `json:"balance_after"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
}
