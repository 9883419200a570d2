package game

import "encoding/json"

// Envelope is the wire frame for every server->client event.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func (e Envelope) Marshal() []byte {
	b, _ := json.Marshal(e)
	return b
}

// Event types sent to clients.
const (
	EvSnapshot           = "snapshot"
	EvRegistrationOpen   = "registration_open"
	EvRegistrationClosed = "registration_closed"
	EvPlayersUpdate      = "players_update"
	EvRegistrationUpdate = "registration_update"
	EvSelectionConfirmed = "selection_confirmed"
	EvSelectionRejected  = "selection_rejected"
	EvGameStarted        = "game_started"
	EvNumberCalled       = "number_called"
	EvBingoAccepted      = "bingo_accepted"
	EvGameFinished       = "game_finished"
	EvGameCancelled      = "game_cancelled"
	EvWalletUpdate       = "wallet_update"
)

// Rejection reason codes.
const (
	ReasonNotInRegistration = "NOT_IN_REGISTRATION"
	ReasonTaken             = "TAKEN"
	ReasonInvalidCard       = "INVALID_CARD"
)

// Winner is one prize-taking entry of a finished round.
type Winner struct {
	UserID     uint  `json:"userId"`
	CardNumber int   `json:"cardNumber"`
	Prize      int64 `json:"prize"`
}

type SnapshotPayload struct {
	Phase         Phase  `json:"phase"`
	GameID        string `json:"gameId"`
	Stake         int64  `json:"stake"`
	PlayersCount  int    `json:"playersCount"`
	CalledNumbers []int  `json:"calledNumbers"`
	TakenCards    []int  `json:"takenCards"`
	YourSelection int    `json:"yourSelection,omitempty"`
	NextStartAt   int64  `json:"nextStartAt,omitempty"` // unix ms
}

type RegistrationOpenPayload struct {
	GameID         string `json:"gameId"`
	Stake          int64  `json:"stake"`
	PlayersCount   int    `json:"playersCount"`
	DurationMS     int64  `json:"duration"`
	EndsAt         int64  `json:"endsAt"` // unix ms
	AvailableCards []int  `json:"availableCards"`
	TakenCards     []int  `json:"takenCards"`
}

type RegistrationClosedPayload struct {
	GameID string `json:"gameId"`
}

type PlayersUpdatePayload struct {
	PlayersCount int   `json:"playersCount"`
	PrizePool    int64 `json:"prizePool"`
}

type RegistrationUpdatePayload struct {
	TakenCards []int `json:"takenCards"`
	PrizePool  int64 `json:"prizePool"`
}

type SelectionConfirmedPayload struct {
	CardNumber   int   `json:"cardNumber"`
	PlayersCount int   `json:"playersCount"`
	PrizePool    int64 `json:"prizePool"`
}

type SelectionRejectedPayload struct {
	Reason     string `json:"reason"`
	CardNumber int    `json:"cardNumber"`
}

type GameStartedPayload struct {
	GameID        string   `json:"gameId"`
	Stake         int64    `json:"stake"`
	PlayersCount  int      `json:"playersCount"`
	Pot           int64    `json:"pot"`
	PrizePool     int64    `json:"prizePool"`
	CalledNumbers []int    `json:"calledNumbers"`
	Card          Cartella `json:"card"`
	CardNumber    int      `json:"cardNumber"`
}

type NumberCalledPayload struct {
	GameID        string `json:"gameId"`
	Number        int    `json:"number"`
	CalledNumbers []int  `json:"calledNumbers"`
}

type BingoAcceptedPayload struct {
	GameID        string   `json:"gameId"`
	Winners       []Winner `json:"winners"`
	CalledNumbers []int    `json:"calledNumbers"`
}

type GameFinishedPayload struct {
	GameID        string   `json:"gameId"`
	Winners       []Winner `json:"winners"`
	CalledNumbers []int    `json:"calledNumbers"`
	Stake         int64    `json:"stake"`
	NextStartAt   int64    `json:"nextStartAt"` // unix ms
}

type GameCancelledPayload struct {
	Reason string `json:"reason"`
}

type WalletUpdatePayload struct {
	Main   int64  `json:"main"`
	Play   int64  `json:"play"`
	Coins  int64  `json:"coins"`
	Source string `json:"source"`
}
