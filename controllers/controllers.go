package controllers

import (
	"github.com/luckybingo/bingo-server/game"
	"github.com/luckybingo/bingo-server/wallet"
	"gorm.io/gorm"
)

// API bundles the handler dependencies so nothing reaches for globals.
type API struct {
	db       *gorm.DB
	ledger   *wallet.Ledger
	registry *game.Registry
}

func New(db *gorm.DB, ledger *wallet.Ledger, registry *game.Registry) *API {
	return &API{db: db, ledger: ledger, registry: registry}
}
