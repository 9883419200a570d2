package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luckybingo/bingo-server/models"

	"gorm.io/datatypes"
)

var (
	ErrInsufficientFunds    = errors.New("INSUFFICIENT_FUNDS")
	ErrNotEligibleForCredit = errors.New("NOT_ELIGIBLE_FOR_CREDIT")
	ErrCreditLimitExceeded  = errors.New("CREDIT_LIMIT_EXCEEDED")
	ErrMinConversionNotMet  = errors.New("MIN_CONVERSION_NOT_MET")
	ErrInvalidDirection     = errors.New("INVALID_DIRECTION")
	ErrInvalidAmount        = errors.New("INVALID_AMOUNT")
	ErrDuplicateReference   = errors.New("DUPLICATE_REFERENCE")
)

// Transfer directions between the main and play buckets.
const (
	MainToPlay = "main_to_play"
	PlayToMain = "play_to_main"
)

// CoinsPerUnit is the coin conversion rate: 100 coins buy 1 birr.
const CoinsPerUnit = 100

// Snapshot is a point-in-time copy of every wallet bucket. Each ledger
// operation records one before and one after it.
type Snapshot struct {
	Main              int64 `json:"main"`
	Play              int64 `json:"play"`
	Coins             int64 `json:"coins"`
	CreditUsed        int64 `json:"credit_used"`
	CreditOutstanding int64 `json:"credit_outstanding"`
}

// Result is returned by every mutating operation.
type Result struct {
	Before Snapshot
	After  Snapshot
	// Source names the bucket a stake debit was covered from:
	// "main", "play" or "credit".
	Source string
}

// Params are the product tunables the ledger needs.
type Params struct {
	CompletionBonusCoins int64
	DepositGiftDivisor   int64
}

func DefaultParams() Params {
	return Params{CompletionBonusCoins: 10, DepositGiftDivisor: 5}
}

// Ledger applies atomic balance mutations. Operations for the same user
// never interleave; distinct users proceed concurrently.
type Ledger struct {
	store  Store
	params Params

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewLedger(store Store, params Params) *Ledger {
	if params.DepositGiftDivisor <= 0 {
		params.DepositGiftDivisor = DefaultParams().DepositGiftDivisor
	}
	if params.CompletionBonusCoins < 0 {
		params.CompletionBonusCoins = 0
	}
	return &Ledger{
		store:  store,
		params: params,
		locks:  make(map[uint]*sync.Mutex),
	}
}

// CreditCeiling maps lifetime deposits to the short-term credit limit.
func CreditCeiling(totalDeposited int64) int64 {
	switch {
	case totalDeposited > 500:
		return 50
	case totalDeposited >= 200:
		return 20
	default:
		return 10
	}
}

func (l *Ledger) userLock(userID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	return m
}

func snapshot(w *models.Wallet) Snapshot {
	return Snapshot{
		Main:              w.Main,
		Play:              w.Play,
		Coins:             w.Coins,
		CreditUsed:        w.CreditUsed,
		CreditOutstanding: w.CreditOutstanding,
	}
}

func snapshotJSON(s Snapshot) datatypes.JSON {
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}

// commit saves the wallet and appends the ledger entry for one operation.
func (l *Ledger) commit(w *models.Wallet, before Snapshot, txType models.TransactionType, amount int64, gameID, desc string) (Result, error) {
	if err := l.store.Save(w); err != nil {
		return Result{}, err
	}
	after := snapshot(w)
	tx := &models.Transaction{
		UserID:        w.UserID,
		Type:          txType,
		Amount:        amount,
		GameID:        gameID,
		Description:   desc,
		BalanceBefore: snapshotJSON(before),
		BalanceAfter:  snapshotJSON(after),
		CreatedAt:     time.Now(),
	}
	if err := l.store.Append(tx); err != nil {
		return Result{}, err
	}
	return Result{Before: before, After: after}, nil
}

// DebitForStake collects a round stake. Sources are tried in order:
// main, then play, then the credit line. The whole amount must come
// from a single source.
func (l *Ledger) DebitForStake(userID uint, amount int64, gameID string) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)

	var source string
	switch {
	case w.Main >= amount:
		w.Main -= amount
		source = "main"
	case w.Play >= amount:
		w.Play -= amount
		source = "play"
	default:
		if err := useCredit(w, amount); err != nil {
			return Result{}, fmt.Errorf("stake debit for user %d: %w", userID, ErrInsufficientFunds)
		}
		source = "credit"
	}

	res, err := l.commit(w, before, models.StakeTransaction, -amount, gameID,
		fmt.Sprintf("Stake %d from %s", amount, source))
	res.Source = source
	return res, err
}

// useCredit draws the amount on the credit line. Credit is a last
// resort: both spendable buckets must be exactly zero, and the
// outstanding total may never pass the deposit-tier ceiling.
func useCredit(w *models.Wallet, amount int64) error {
	if w.Main != 0 || w.Play != 0 {
		return ErrNotEligibleForCredit
	}
	if w.CreditOutstanding+amount > CreditCeiling(w.TotalDeposited) {
		return ErrCreditLimitExceeded
	}
	w.CreditUsed += amount
	w.CreditOutstanding += amount
	return nil
}

// UseCredit draws on the credit line outside of a stake debit.
func (l *Ledger) UseCredit(userID uint, amount int64) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)
	if err := useCredit(w, amount); err != nil {
		return Result{}, err
	}
	return l.commit(w, before, models.StakeTransaction, -amount, "",
		fmt.Sprintf("Credit draw %d", amount))
}

// CreditWin pays a prize into main. Any outstanding credit is repaid
// out of the prize first, so the user only ever sees the net balance.
func (l *Ledger) CreditWin(userID uint, amount int64, gameID string) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)

	repay := w.CreditOutstanding
	if repay > amount {
		repay = amount
	}
	w.Main += amount - repay
	w.CreditUsed -= repay
	w.CreditOutstanding -= repay
	w.GamesWon++

	desc := fmt.Sprintf("Game win %d", amount)
	if repay > 0 {
		desc = fmt.Sprintf("Game win %d (auto-repaid %d credit)", amount, repay)
	}
	return l.commit(w, before, models.WinTransaction, amount, gameID, desc)
}

// CreditCompletionBonus grants the flat coin reward for finishing a
// round, win or not. With the bonus configured to zero it still
// returns the real balance snapshot, since callers broadcast the
// result as a wallet update; it just writes no transaction.
func (l *Ledger) CreditCompletionBonus(userID uint, gameID string) (Result, error) {
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)
	if l.params.CompletionBonusCoins == 0 {
		return Result{Before: before, After: before}, nil
	}
	w.Coins += l.params.CompletionBonusCoins
	return l.commit(w, before, models.BonusTransaction, l.params.CompletionBonusCoins, gameID,
		fmt.Sprintf("Completion bonus %d coins", l.params.CompletionBonusCoins))
}

// Convert exchanges coins for currency at 100:1, floor-rounded. Amounts
// below one whole unit are rejected outright, never partially applied.
func (l *Ledger) Convert(userID uint, coins int64, targetBucket string) (Result, error) {
	if coins <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	if w.Coins < coins {
		return Result{}, ErrInsufficientFunds
	}
	units := coins / CoinsPerUnit
	if units <= 0 {
		return Result{}, ErrMinConversionNotMet
	}
	before := snapshot(w)
	deducted := units * CoinsPerUnit
	w.Coins -= deducted
	if targetBucket == "play" {
		w.Play += units
	} else {
		targetBucket = "main"
		w.Main += units
	}
	return l.commit(w, before, models.ConversionTransaction, units, "",
		fmt.Sprintf("Converted %d coins to %d (%s)", deducted, units, targetBucket))
}

// Transfer moves funds between the main and play buckets.
func (l *Ledger) Transfer(userID uint, amount int64, direction string) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)
	switch direction {
	case MainToPlay:
		if w.Main < amount {
			return Result{}, ErrInsufficientFunds
		}
		w.Main -= amount
		w.Play += amount
	case PlayToMain:
		if w.Play < amount {
			return Result{}, ErrInsufficientFunds
		}
		w.Play -= amount
		w.Main += amount
	default:
		return Result{}, ErrInvalidDirection
	}
	return l.commit(w, before, models.TransferTransaction, amount, "",
		fmt.Sprintf("Transfer %d (%s)", amount, direction))
}

// Deposit credits main, grows the lifetime total that feeds the credit
// tier, and gifts coins on top. A payment reference is recorded once;
// replaying the same reference fails before any balance changes.
func (l *Ledger) Deposit(userID uint, amount int64, reference string) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	if reference != "" {
		created, err := l.store.RecordDeposit(&models.Deposit{
			UserID:    userID,
			Amount:    amount,
			Reference: reference,
		})
		if err != nil {
			return Result{}, err
		}
		if !created {
			return Result{}, ErrDuplicateReference
		}
	}

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	before := snapshot(w)
	w.Main += amount
	w.TotalDeposited += amount
	now := time.Now()
	w.LastDepositAt = &now

	gift := amount / l.params.DepositGiftDivisor
	w.Coins += gift

	desc := fmt.Sprintf("Deposit %d", amount)
	if gift > 0 {
		desc = fmt.Sprintf("Deposit %d (+%d coins gift)", amount, gift)
	}
	if reference != "" {
		desc += " ref " + reference
	}
	return l.commit(w, before, models.DepositTransaction, amount, "", desc)
}

// Withdraw debits main for a withdrawal request.
func (l *Ledger) Withdraw(userID uint, amount int64, destination string) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Result{}, err
	}
	if w.Main < amount {
		return Result{}, ErrInsufficientFunds
	}
	before := snapshot(w)
	w.Main -= amount
	return l.commit(w, before, models.WithdrawalTransaction, -amount, "",
		fmt.Sprintf("Withdrawal %d to %s", amount, destination))
}

// Balance returns the current snapshot without mutating anything.
func (l *Ledger) Balance(userID uint) (Snapshot, error) {
	mu := l.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	w, err := l.store.Wallet(userID)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(w), nil
}
