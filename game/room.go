package game

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luckybingo/bingo-server/utils/logger"
	"github.com/luckybingo/bingo-server/wallet"
)

type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseRegistration Phase = "registration"
	PhaseRunning      Phase = "running"
	PhaseAnnounce     Phase = "announce"
)

// Ledger is the slice of the wallet ledger the room needs for round
// settlement.
type Ledger interface {
	DebitForStake(userID uint, amount int64, gameID string) (wallet.Result, error)
	CreditWin(userID uint, amount int64, gameID string) (wallet.Result, error)
	CreditCompletionBonus(userID uint, gameID string) (wallet.Result, error)
}

// Config holds the round timing knobs.
type Config struct {
	RegistrationWindow time.Duration
	DrawInterval       time.Duration
	AnnounceCooldown   time.Duration
}

// Room runs one stake tier's recurring rounds. All phase transitions
// go through the mutex; ledger and persistence calls happen outside it,
// so every deferred callback re-checks epoch and phase before acting.
type Room struct {
	Stake int64

	cfg     Config
	catalog *Catalog
	ledger  Ledger
	sink    Persistence
	bus     *Bus
	rng     *rand.Rand

	mu         sync.Mutex
	phase      Phase
	epoch      uint64
	gameID     string
	selections map[uint]int // userID -> reserved card number
	taken      map[int]uint // card number -> userID
	committed  []uint       // reservation set frozen at the deadline
	cards      map[uint]Cartella
	cardNums   map[uint]int
	called     []int
	calledSet  map[int]bool
	winners    []Winner
	pot        int64
	systemCut  int64
	prizePool  int64
	regEndsAt  time.Time
	nextStart  time.Time

	deadlineTimer *time.Timer
	cooldownTimer *time.Timer
	caller        *numberCaller
}

func NewRoom(stake int64, cfg Config, catalog *Catalog, ledger Ledger, sink Persistence) *Room {
	return &Room{
		Stake:      stake,
		cfg:        cfg,
		catalog:    catalog,
		ledger:     ledger,
		sink:       sink,
		bus:        NewBus(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		phase:      PhaseWaiting,
		selections: make(map[uint]int),
		taken:      make(map[int]uint),
		cards:      make(map[uint]Cartella),
		cardNums:   make(map[uint]int),
		calledSet:  make(map[int]bool),
	}
}

// -------------------- membership --------------------

// Join attaches a connection and sends the personal state snapshot.
func (r *Room) Join(userID uint, sub Subscriber) {
	r.bus.Attach(userID, sub)
	r.SendSnapshot(userID)
	logger.Infof("[Room %d] user %d joined (sockets=%d)", r.Stake, userID, r.bus.Len())
}

// Leave detaches the connection. A reservation still pending in the
// current registration window is released back to the pool; a running
// round keeps the player's card so a disconnect cannot void a win.
// A connection replaced by a newer one for the same user is already
// gone from the bus, and its exit must not touch the user's state.
func (r *Room) Leave(userID uint, sub Subscriber) {
	if !r.bus.Detach(userID, sub) {
		return
	}

	r.mu.Lock()
	released := false
	if r.phase == PhaseRegistration {
		if card, ok := r.selections[userID]; ok {
			delete(r.selections, userID)
			delete(r.taken, card)
			released = true
		}
	}
	count := len(r.selections)
	taken := r.takenListLocked()
	prize := r.openPrizePoolLocked()
	r.mu.Unlock()

	if released {
		r.bus.Publish(Envelope{EvPlayersUpdate, PlayersUpdatePayload{count, prize}})
		r.bus.Publish(Envelope{EvRegistrationUpdate, RegistrationUpdatePayload{taken, prize}})
	}
	logger.Infof("[Room %d] user %d left (sockets=%d)", r.Stake, userID, r.bus.Len())
}

// SendSnapshot sends the current room state to one user.
func (r *Room) SendSnapshot(userID uint) {
	r.mu.Lock()
	p := SnapshotPayload{
		Phase:         r.phase,
		GameID:        r.gameID,
		Stake:         r.Stake,
		PlayersCount:  len(r.selections),
		CalledNumbers: append([]int(nil), r.called...),
		TakenCards:    r.takenListLocked(),
		YourSelection: r.selections[userID],
	}
	switch r.phase {
	case PhaseRegistration:
		p.NextStartAt = r.regEndsAt.UnixMilli()
	case PhaseAnnounce:
		p.NextStartAt = r.nextStart.UnixMilli()
	}
	r.mu.Unlock()

	r.bus.Send(userID, Envelope{EvSnapshot, p})
}

// -------------------- registration --------------------

// SelectCard reserves a card for the user. The first reservation while
// the room is idle opens a fresh registration window.
func (r *Room) SelectCard(userID uint, cardNumber int) {
	if cardNumber < 1 || cardNumber > CatalogSize {
		r.bus.Send(userID, Envelope{EvSelectionRejected, SelectionRejectedPayload{ReasonInvalidCard, cardNumber}})
		return
	}

	r.mu.Lock()
	if r.phase == PhaseWaiting {
		r.openRegistrationLocked()
	}
	if r.phase != PhaseRegistration {
		r.mu.Unlock()
		r.bus.Send(userID, Envelope{EvSelectionRejected, SelectionRejectedPayload{ReasonNotInRegistration, cardNumber}})
		return
	}
	if owner, ok := r.taken[cardNumber]; ok && owner != userID {
		r.mu.Unlock()
		r.bus.Send(userID, Envelope{EvSelectionRejected, SelectionRejectedPayload{ReasonTaken, cardNumber}})
		return
	}

	// Release any previous card in the same step that takes the new
	// one, so the user never holds zero or two reservations.
	if prev, ok := r.selections[userID]; ok {
		delete(r.taken, prev)
	}
	r.selections[userID] = cardNumber
	r.taken[cardNumber] = userID

	count := len(r.selections)
	prize := r.openPrizePoolLocked()
	taken := r.takenListLocked()
	r.mu.Unlock()

	r.bus.Send(userID, Envelope{EvSelectionConfirmed, SelectionConfirmedPayload{cardNumber, count, prize}})
	r.bus.Publish(Envelope{EvPlayersUpdate, PlayersUpdatePayload{count, prize}})
	r.bus.Publish(Envelope{EvRegistrationUpdate, RegistrationUpdatePayload{taken, prize}})
}

// StartRegistration forces the waiting->registration transition. In any
// other phase the caller just gets a snapshot back.
func (r *Room) StartRegistration(userID uint) {
	r.mu.Lock()
	if r.phase == PhaseWaiting {
		r.openRegistrationLocked()
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.SendSnapshot(userID)
}

// openRegistrationLocked resets all round state and opens a new
// registration window. Caller holds the lock.
func (r *Room) openRegistrationLocked() {
	if r.deadlineTimer != nil {
		r.deadlineTimer.Stop()
	}
	if r.cooldownTimer != nil {
		r.cooldownTimer.Stop()
	}
	if r.caller != nil {
		r.caller.Stop()
		r.caller = nil
	}

	r.epoch++
	r.phase = PhaseRegistration
	r.gameID = "LB-" + uuid.NewString()
	r.selections = make(map[uint]int)
	r.taken = make(map[int]uint)
	r.committed = nil
	r.cards = make(map[uint]Cartella)
	r.cardNums = make(map[uint]int)
	r.called = nil
	r.calledSet = make(map[int]bool)
	r.winners = nil
	r.pot, r.systemCut, r.prizePool = 0, 0, 0
	r.regEndsAt = time.Now().Add(r.cfg.RegistrationWindow)

	epoch := r.epoch
	r.deadlineTimer = time.AfterFunc(r.cfg.RegistrationWindow, func() {
		r.registrationDeadline(epoch)
	})

	gameID, stake, endsAt := r.gameID, r.Stake, r.regEndsAt
	go func() {
		if err := r.sink.Create(gameID, stake, endsAt); err != nil {
			logger.Errorf("[Room %d] persist create %s: %v", stake, gameID, err)
		}
	}()

	available := make([]int, CatalogSize)
	for i := range available {
		available[i] = i + 1
	}
	r.bus.Publish(Envelope{EvRegistrationOpen, RegistrationOpenPayload{
		GameID:         gameID,
		Stake:          stake,
		PlayersCount:   0,
		DurationMS:     r.cfg.RegistrationWindow.Milliseconds(),
		EndsAt:         endsAt.UnixMilli(),
		AvailableCards: available,
		TakenCards:     []int{},
	}})
	logger.Infof("[Room %d] registration open, game %s", stake, gameID)
}

// registrationDeadline fires when the window elapses. The epoch check
// makes a stale timer (room already reset) a no-op.
func (r *Room) registrationDeadline(epoch uint64) {
	r.mu.Lock()
	if r.epoch != epoch || r.phase != PhaseRegistration {
		r.mu.Unlock()
		return
	}
	r.bus.Publish(Envelope{EvRegistrationClosed, RegistrationClosedPayload{r.gameID}})

	if len(r.selections) == 0 {
		r.cancelRoundLocked("no players")
		r.mu.Unlock()
		return
	}

	// Freeze the committed set; these users get the completion bonus
	// whether or not their stake debit succeeds.
	type reservation struct {
		userID uint
		card   int
	}
	reserved := make([]reservation, 0, len(r.selections))
	for uid, card := range r.selections {
		reserved = append(reserved, reservation{uid, card})
		r.committed = append(r.committed, uid)
	}
	sort.Slice(reserved, func(i, j int) bool { return reserved[i].userID < reserved[j].userID })
	sort.Slice(r.committed, func(i, j int) bool { return r.committed[i] < r.committed[j] })

	gameID, stake := r.gameID, r.Stake
	r.mu.Unlock()

	// Collect stakes strictly one user at a time. A funds failure drops
	// the player from the paying set for this round, never aborts it.
	payers := make([]reservation, 0, len(reserved))
	for _, res := range reserved {
		result, err := r.ledger.DebitForStake(res.userID, stake, gameID)
		if err != nil {
			logger.Warnf("[Room %d] dropping user %d from round %s: %v", stake, res.userID, gameID, err)
			continue
		}
		payers = append(payers, res)
		r.sendWalletUpdate(res.userID, result, result.Source)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch || r.phase != PhaseRegistration {
		return
	}
	if len(payers) == 0 {
		r.cancelRoundLocked("no paying players")
		return
	}

	r.pot = stake * int64(len(payers))
	r.systemCut = r.pot / 5
	r.prizePool = r.pot - r.systemCut

	players := make([]GamePlayer, 0, len(payers))
	for _, p := range payers {
		card, ok := r.catalog.Card(p.card)
		if !ok {
			continue
		}
		r.cards[p.userID] = card
		r.cardNums[p.userID] = p.card
		players = append(players, GamePlayer{p.userID, p.card})
	}
	r.phase = PhaseRunning
	logger.Infof("[Room %d] game %s running: players=%d pot=%d prize=%d",
		stake, gameID, len(players), r.pot, r.prizePool)

	now := time.Now()
	update := GameUpdate{
		Status:    "running",
		Players:   players,
		Pot:       r.pot,
		SystemCut: r.systemCut,
		PrizePool: r.prizePool,
		StartedAt: &now,
	}
	go func() {
		if err := r.sink.Update(gameID, update); err != nil {
			logger.Errorf("[Room %d] persist update %s: %v", stake, gameID, err)
		}
	}()

	for _, p := range payers {
		r.bus.Send(p.userID, Envelope{EvGameStarted, GameStartedPayload{
			GameID:        gameID,
			Stake:         stake,
			PlayersCount:  len(payers),
			Pot:           r.pot,
			PrizePool:     r.prizePool,
			CalledNumbers: []int{},
			Card:          r.cards[p.userID],
			CardNumber:    p.card,
		}})
	}

	r.caller = newNumberCaller(r.rng, r.cfg.DrawInterval)
	go r.caller.run(func(n int) bool { return r.onNumber(epoch, n) })
}

// cancelRoundLocked aborts a round nobody joined (or nobody paid for)
// and immediately opens a fresh registration window. No announce phase
// ever runs for a cancelled round.
func (r *Room) cancelRoundLocked(reason string) {
	gameID, stake := r.gameID, r.Stake
	now := time.Now()
	go func() {
		if err := r.sink.Update(gameID, GameUpdate{Status: "cancelled", FinishedAt: &now}); err != nil {
			logger.Errorf("[Room %d] persist cancel %s: %v", stake, gameID, err)
		}
	}()
	r.bus.Publish(Envelope{EvGameCancelled, GameCancelledPayload{reason}})
	logger.Infof("[Room %d] game %s cancelled: %s", stake, gameID, reason)
	r.openRegistrationLocked()
}

// -------------------- running --------------------

// onNumber appends one drawn number and runs win detection. Returning
// false stops the caller.
func (r *Room) onNumber(epoch uint64, n int) bool {
	r.mu.Lock()
	if r.epoch != epoch || r.phase != PhaseRunning {
		r.mu.Unlock()
		return false
	}
	r.called = append(r.called, n)
	r.calledSet[n] = true
	r.bus.Publish(Envelope{EvNumberCalled, NumberCalledPayload{
		GameID:        r.gameID,
		Number:        n,
		CalledNumbers: append([]int(nil), r.called...),
	}})

	winners := r.scanWinnersLocked()
	exhausted := len(r.called) >= MaxNumber
	r.mu.Unlock()

	if len(winners) > 0 || exhausted {
		r.finish(epoch, winners)
		return false
	}
	return true
}

// ClaimBingo validates an explicit win claim against the current called
// set. A bad claim changes nothing; a good one ends the round and every
// card completed by the same draw wins with it.
func (r *Room) ClaimBingo(userID uint) {
	r.mu.Lock()
	if r.phase != PhaseRunning {
		r.mu.Unlock()
		return
	}
	card, ok := r.cards[userID]
	if !ok || !HasWinningLine(card, r.calledSet) {
		r.mu.Unlock()
		logger.Debugf("[Room %d] rejected bingo claim from user %d", r.Stake, userID)
		return
	}
	epoch := r.epoch
	winners := r.scanWinnersLocked()
	r.bus.Publish(Envelope{EvBingoAccepted, BingoAcceptedPayload{
		GameID:        r.gameID,
		Winners:       winners,
		CalledNumbers: append([]int(nil), r.called...),
	}})
	r.mu.Unlock()

	r.finish(epoch, winners)
}

// scanWinnersLocked finds every committed card completed by the current
// called set. Caller holds the lock.
func (r *Room) scanWinnersLocked() []Winner {
	ids := make([]uint, 0, len(r.cards))
	for uid := range r.cards {
		ids = append(ids, uid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var winners []Winner
	for _, uid := range ids {
		if HasWinningLine(r.cards[uid], r.calledSet) {
			winners = append(winners, Winner{UserID: uid, CardNumber: r.cardNums[uid]})
		}
	}
	return winners
}

// -------------------- announce --------------------

// finish moves the round to announce, pays winners and completion
// bonuses, persists the final snapshot and schedules the next round.
func (r *Room) finish(epoch uint64, winners []Winner) {
	r.mu.Lock()
	if r.epoch != epoch || r.phase != PhaseRunning {
		r.mu.Unlock()
		return
	}
	r.phase = PhaseAnnounce
	if r.caller != nil {
		r.caller.Stop()
		r.caller = nil
	}

	// Prize split is even; the integer remainder stays with the house.
	if len(winners) > 0 {
		per := r.prizePool / int64(len(winners))
		for i := range winners {
			winners[i].Prize = per
		}
	}
	r.winners = winners
	r.nextStart = time.Now().Add(r.cfg.AnnounceCooldown)

	gameID, stake := r.gameID, r.Stake
	called := append([]int(nil), r.called...)
	committed := append([]uint(nil), r.committed...)
	pot, cut, prize := r.pot, r.systemCut, r.prizePool

	r.bus.Publish(Envelope{EvGameFinished, GameFinishedPayload{
		GameID:        gameID,
		Winners:       winners,
		CalledNumbers: called,
		Stake:         stake,
		NextStartAt:   r.nextStart.UnixMilli(),
	}})

	r.cooldownTimer = time.AfterFunc(r.cfg.AnnounceCooldown, func() {
		r.cooldownElapsed(epoch)
	})
	r.mu.Unlock()

	logger.Infof("[Room %d] game %s finished: winners=%d called=%d",
		stake, gameID, len(winners), len(called))

	for _, w := range winners {
		if w.Prize <= 0 {
			continue
		}
		result, err := r.ledger.CreditWin(w.UserID, w.Prize, gameID)
		if err != nil {
			logger.Errorf("[Room %d] win payout to user %d failed: %v", stake, w.UserID, err)
			continue
		}
		r.sendWalletUpdate(w.UserID, result, "win")
	}
	for _, uid := range committed {
		result, err := r.ledger.CreditCompletionBonus(uid, gameID)
		if err != nil {
			logger.Errorf("[Room %d] completion bonus for user %d failed: %v", stake, uid, err)
			continue
		}
		r.sendWalletUpdate(uid, result, "completion_bonus")
	}

	now := time.Now()
	update := GameUpdate{
		Status:        "completed",
		Pot:           pot,
		SystemCut:     cut,
		PrizePool:     prize,
		CalledNumbers: called,
		Winners:       winners,
		FinishedAt:    &now,
	}
	go func() {
		if err := r.sink.Update(gameID, update); err != nil {
			logger.Errorf("[Room %d] persist finish %s: %v", stake, gameID, err)
		}
	}()
}

// cooldownElapsed chains straight into the next registration window.
func (r *Room) cooldownElapsed(epoch uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch || r.phase != PhaseAnnounce {
		return
	}
	r.openRegistrationLocked()
}

// -------------------- helpers --------------------

func (r *Room) sendWalletUpdate(userID uint, res wallet.Result, source string) {
	r.bus.Send(userID, Envelope{EvWalletUpdate, WalletUpdatePayload{
		Main:   res.After.Main,
		Play:   res.After.Play,
		Coins:  res.After.Coins,
		Source: source,
	}})
}

func (r *Room) takenListLocked() []int {
	out := make([]int, 0, len(r.taken))
	for card := range r.taken {
		out = append(out, card)
	}
	sort.Ints(out)
	return out
}

// openPrizePoolLocked is the projected prize pool while registration is
// still open, assuming every reserved player pays.
func (r *Room) openPrizePoolLocked() int64 {
	pot := r.Stake * int64(len(r.selections))
	return pot - pot/5
}

// Phase returns the current phase.
func (r *Room) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// GameID returns the current round id, empty while waiting.
func (r *Room) GameID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameID
}

// ReservedCount returns the number of users holding a reservation.
func (r *Room) ReservedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.selections)
}

// CalledNumbers returns a copy of the called sequence so far.
func (r *Room) CalledNumbers() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.called...)
}

// Winners returns a copy of the current winner list.
func (r *Room) Winners() []Winner {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Winner(nil), r.winners...)
}

// Sockets returns how many connections are attached.
func (r *Room) Sockets() int {
	return r.bus.Len()
}
