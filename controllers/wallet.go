package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luckybingo/bingo-server/wallet"
)

// GetWallet returns the balance snapshot for a user.
func (a *API) GetWallet(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	snap, err := a.ledger.Balance(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"main":              snap.Main,
		"play":              snap.Play,
		"coins":             snap.Coins,
		"creditUsed":        snap.CreditUsed,
		"creditOutstanding": snap.CreditOutstanding,
	})
}

// Convert exchanges coins for currency at the fixed 100:1 rate.
func (a *API) Convert(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	var req struct {
		Coins        int64  `json:"coins" binding:"required"`
		TargetWallet string `json:"targetWallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.ledger.Convert(user.ID, req.Coins, req.TargetWallet)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"before": res.Before, "after": res.After})
}

// Transfer moves funds between the main and play buckets.
func (a *API) Transfer(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	var req struct {
		Amount    int64  `json:"amount" binding:"required"`
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.ledger.Transfer(user.ID, req.Amount, req.Direction)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"before": res.Before, "after": res.After})
}

// Deposit credits the main bucket after an approved payment.
func (a *API) Deposit(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	var req struct {
		Amount    int64  `json:"amount" binding:"required"`
		Reference string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.ledger.Deposit(user.ID, req.Amount, req.Reference)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"before": res.Before, "after": res.After})
}

// Withdraw debits main for a withdrawal request.
func (a *API) Withdraw(c *gin.Context) {
	user, ok := a.userByTelegramParam(c)
	if !ok {
		return
	}
	var req struct {
		Amount      int64  `json:"amount" binding:"required"`
		Destination string `json:"destination"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := a.ledger.Withdraw(user.ID, req.Amount, req.Destination)
	if err != nil {
		c.JSON(ledgerStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"before": res.Before, "after": res.After})
}

func ledgerStatus(err error) int {
	switch {
	case errors.Is(err, wallet.ErrDuplicateReference):
		return http.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientFunds),
		errors.Is(err, wallet.ErrMinConversionNotMet),
		errors.Is(err, wallet.ErrInvalidAmount),
		errors.Is(err, wallet.ErrInvalidDirection),
		errors.Is(err, wallet.ErrNotEligibleForCredit),
		errors.Is(err, wallet.ErrCreditLimitExceeded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
