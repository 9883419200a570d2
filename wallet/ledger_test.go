package wallet

import (
	"errors"
	"sync"
	"testing"

	"github.com/luckybingo/bingo-server/models"
)

// memStore is a map-backed Store for tests.
type memStore struct {
	mu       sync.Mutex
	wallets  map[uint]models.Wallet
	txs      []models.Transaction
	deposits map[string]models.Deposit
}

func newMemStore() *memStore {
	return &memStore{
		wallets:  make(map[uint]models.Wallet),
		deposits: make(map[string]models.Deposit),
	}
}

func (s *memStore) Wallet(userID uint) (*models.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[userID]
	if !ok {
		w = models.Wallet{UserID: userID}
		s.wallets[userID] = w
	}
	cp := w
	return &cp, nil
}

func (s *memStore) Save(w *models.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.UserID] = *w
	return nil
}

func (s *memStore) Append(tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, *tx)
	return nil
}

func (s *memStore) RecordDeposit(d *models.Deposit) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deposits[d.Reference]; ok {
		return false, nil
	}
	s.deposits[d.Reference] = *d
	return true, nil
}

func (s *memStore) seed(w models.Wallet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets[w.UserID] = w
}

func (s *memStore) txCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.txs)
}

func checkInvariants(t *testing.T, w models.Wallet) {
	t.Helper()
	if w.Main < 0 || w.Play < 0 || w.Coins < 0 || w.CreditUsed < 0 || w.CreditOutstanding < 0 {
		t.Fatalf("negative bucket: %+v", w)
	}
	if w.CreditOutstanding > CreditCeiling(w.TotalDeposited) {
		t.Fatalf("outstanding %d exceeds ceiling %d", w.CreditOutstanding, CreditCeiling(w.TotalDeposited))
	}
}

func TestCreditCeiling(t *testing.T) {
	tests := []struct {
		deposited int64
		want      int64
	}{
		{0, 10},
		{199, 10},
		{200, 20},
		{500, 20},
		{501, 50},
		{10000, 50},
	}
	for _, tt := range tests {
		if got := CreditCeiling(tt.deposited); got != tt.want {
			t.Errorf("CreditCeiling(%d) = %d, want %d", tt.deposited, got, tt.want)
		}
	}
}

func TestDebitForStake(t *testing.T) {
	tests := []struct {
		name       string
		start      models.Wallet
		amount     int64
		wantErr    error
		wantSource string
		wantAfter  Snapshot
	}{
		{
			name:       "main covers",
			start:      models.Wallet{UserID: 1, Main: 50, Play: 5},
			amount:     10,
			wantSource: "main",
			wantAfter:  Snapshot{Main: 40, Play: 5},
		},
		{
			name:       "main short, play covers",
			start:      models.Wallet{UserID: 1, Main: 3, Play: 30},
			amount:     10,
			wantSource: "play",
			wantAfter:  Snapshot{Main: 3, Play: 20},
		},
		{
			name:       "both empty, credit granted at tier",
			start:      models.Wallet{UserID: 1, TotalDeposited: 250},
			amount:     15,
			wantSource: "credit",
			wantAfter:  Snapshot{CreditUsed: 15, CreditOutstanding: 15},
		},
		{
			name:    "both empty, over credit ceiling",
			start:   models.Wallet{UserID: 1, TotalDeposited: 100},
			amount:  15,
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "nonzero buckets block credit",
			start:   models.Wallet{UserID: 1, Main: 2, TotalDeposited: 1000},
			amount:  15,
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "outstanding credit counts against ceiling",
			start:   models.Wallet{UserID: 1, TotalDeposited: 250, CreditUsed: 10, CreditOutstanding: 10},
			amount:  15,
			wantErr: ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seed(tt.start)
			l := NewLedger(store, DefaultParams())

			res, err := l.DebitForStake(tt.start.UserID, tt.amount, "g1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if store.txCount() != 0 {
					t.Fatalf("failed debit must not log a transaction, got %d", store.txCount())
				}
				w, _ := store.Wallet(tt.start.UserID)
				if *w != tt.start {
					t.Fatalf("failed debit mutated wallet: %+v", *w)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Source != tt.wantSource {
				t.Errorf("source = %q, want %q", res.Source, tt.wantSource)
			}
			tt.wantAfter.Coins = tt.start.Coins
			if res.After != tt.wantAfter {
				t.Errorf("after = %+v, want %+v", res.After, tt.wantAfter)
			}
			if store.txCount() != 1 {
				t.Errorf("txCount = %d, want 1", store.txCount())
			}
			w, _ := store.Wallet(tt.start.UserID)
			checkInvariants(t, *w)
		})
	}
}

func TestCreditWinAutoRepay(t *testing.T) {
	tests := []struct {
		name      string
		start     models.Wallet
		amount    int64
		wantMain  int64
		wantOutst int64
		wantUsed  int64
	}{
		{
			name:      "no outstanding credit",
			start:     models.Wallet{UserID: 2, Main: 5},
			amount:    24,
			wantMain:  29,
			wantOutst: 0,
		},
		{
			name:      "win covers outstanding",
			start:     models.Wallet{UserID: 2, TotalDeposited: 250, CreditUsed: 15, CreditOutstanding: 15},
			amount:    24,
			wantMain:  9,
			wantOutst: 0,
			wantUsed:  0,
		},
		{
			name:      "win smaller than outstanding",
			start:     models.Wallet{UserID: 2, TotalDeposited: 250, CreditUsed: 20, CreditOutstanding: 20},
			amount:    8,
			wantMain:  0,
			wantOutst: 12,
			wantUsed:  12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seed(tt.start)
			l := NewLedger(store, DefaultParams())

			res, err := l.CreditWin(tt.start.UserID, tt.amount, "g1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.After.Main != tt.wantMain {
				t.Errorf("main = %d, want %d", res.After.Main, tt.wantMain)
			}
			if res.After.CreditOutstanding != tt.wantOutst {
				t.Errorf("outstanding = %d, want %d", res.After.CreditOutstanding, tt.wantOutst)
			}
			if res.After.CreditUsed != tt.wantUsed {
				t.Errorf("used = %d, want %d", res.After.CreditUsed, tt.wantUsed)
			}
			w, _ := store.Wallet(tt.start.UserID)
			checkInvariants(t, *w)
			if w.GamesWon != tt.start.GamesWon+1 {
				t.Errorf("gamesWon = %d, want %d", w.GamesWon, tt.start.GamesWon+1)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name      string
		coins     int64
		request   int64
		target    string
		wantErr   error
		wantMain  int64
		wantPlay  int64
		wantCoins int64
	}{
		{name: "below one unit", coins: 500, request: 99, wantErr: ErrMinConversionNotMet},
		{name: "not enough coins", coins: 50, request: 100, wantErr: ErrInsufficientFunds},
		{name: "floor to whole units", coins: 500, request: 250, target: "main", wantMain: 2, wantCoins: 300},
		{name: "to play bucket", coins: 200, request: 200, target: "play", wantPlay: 2, wantCoins: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seed(models.Wallet{UserID: 3, Coins: tt.coins})
			l := NewLedger(store, DefaultParams())

			res, err := l.Convert(3, tt.request, tt.target)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				w, _ := store.Wallet(3)
				if w.Coins != tt.coins || w.Main != 0 || w.Play != 0 {
					t.Fatalf("rejected conversion mutated wallet: %+v", *w)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.After.Main != tt.wantMain || res.After.Play != tt.wantPlay || res.After.Coins != tt.wantCoins {
				t.Errorf("after = %+v", res.After)
			}
		})
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		amount    int64
		wantErr   error
		wantMain  int64
		wantPlay  int64
	}{
		{name: "main to play", direction: MainToPlay, amount: 30, wantMain: 20, wantPlay: 40},
		{name: "play to main", direction: PlayToMain, amount: 10, wantMain: 60, wantPlay: 0},
		{name: "insufficient source", direction: PlayToMain, amount: 11, wantErr: ErrInsufficientFunds},
		{name: "bad direction", direction: "sideways", amount: 5, wantErr: ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.seed(models.Wallet{UserID: 4, Main: 50, Play: 10})
			l := NewLedger(store, DefaultParams())

			res, err := l.Transfer(4, tt.amount, tt.direction)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.After.Main != tt.wantMain || res.After.Play != tt.wantPlay {
				t.Errorf("after = %+v", res.After)
			}
		})
	}
}

func TestDeposit(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store, DefaultParams())

	res, err := l.Deposit(5, 250, "REF123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.After.Main != 250 {
		t.Errorf("main = %d, want 250", res.After.Main)
	}
	if res.After.Coins != 50 {
		t.Errorf("gift coins = %d, want 50", res.After.Coins)
	}
	w, _ := store.Wallet(5)
	if w.TotalDeposited != 250 {
		t.Errorf("totalDeposited = %d, want 250", w.TotalDeposited)
	}
	if w.LastDepositAt == nil {
		t.Error("lastDepositAt not set")
	}

	// Lifetime deposits feed the credit tier.
	if got := CreditCeiling(w.TotalDeposited); got != 20 {
		t.Errorf("ceiling after deposit = %d, want 20", got)
	}

	if _, ok := store.deposits["REF123"]; !ok {
		t.Error("deposit row not recorded")
	}
}

func TestDepositDuplicateReference(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store, DefaultParams())

	if _, err := l.Deposit(5, 250, "REF123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Deposit(5, 250, "REF123"); !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("err = %v, want ErrDuplicateReference", err)
	}

	// The replay credited nothing and logged nothing.
	w, _ := store.Wallet(5)
	if w.Main != 250 || w.TotalDeposited != 250 {
		t.Errorf("wallet after replay = %+v", w)
	}
	if store.txCount() != 1 {
		t.Errorf("txCount = %d, want 1", store.txCount())
	}

	// A fresh reference goes through normally.
	if _, err := l.Deposit(5, 100, "REF124"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompletionBonus(t *testing.T) {
	store := newMemStore()
	l := NewLedger(store, Params{CompletionBonusCoins: 10, DepositGiftDivisor: 5})

	res, err := l.CreditCompletionBonus(6, "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.After.Coins != 10 {
		t.Errorf("coins = %d, want 10", res.After.Coins)
	}
	if store.txCount() != 1 {
		t.Errorf("txCount = %d, want 1", store.txCount())
	}
	if store.txs[0].Type != models.BonusTransaction {
		t.Errorf("tx type = %s", store.txs[0].Type)
	}
}

func TestCompletionBonusDisabled(t *testing.T) {
	store := newMemStore()
	store.seed(models.Wallet{UserID: 6, Main: 50, Play: 20, Coins: 300})
	l := NewLedger(store, Params{CompletionBonusCoins: 0, DepositGiftDivisor: 5})

	res, err := l.CreditCompletionBonus(6, "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The result still carries the real balances so callers can
	// broadcast it as a wallet update without zeroing anything out.
	if res.After.Main != 50 || res.After.Play != 20 || res.After.Coins != 300 {
		t.Errorf("after = %+v, want seeded balances", res.After)
	}
	if store.txCount() != 0 {
		t.Errorf("txCount = %d, want 0", store.txCount())
	}
}

func TestWithdraw(t *testing.T) {
	store := newMemStore()
	store.seed(models.Wallet{UserID: 7, Main: 40})
	l := NewLedger(store, DefaultParams())

	if _, err := l.Withdraw(7, 50, "acct"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	res, err := l.Withdraw(7, 40, "acct")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.After.Main != 0 {
		t.Errorf("main = %d, want 0", res.After.Main)
	}
}

func TestTransactionSnapshots(t *testing.T) {
	store := newMemStore()
	store.seed(models.Wallet{UserID: 8, Main: 100})
	l := NewLedger(store, DefaultParams())

	if _, err := l.DebitForStake(8, 10, "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.txCount() != 1 {
		t.Fatalf("txCount = %d, want 1", store.txCount())
	}
	tx := store.txs[0]
	if tx.Type != models.StakeTransaction || tx.Amount != -10 || tx.GameID != "g1" {
		t.Errorf("tx = %+v", tx)
	}
	if len(tx.BalanceBefore) == 0 || len(tx.BalanceAfter) == 0 {
		t.Error("missing balance snapshots")
	}
}
