package events

import (
	"time"
)

// Event types published for a lottery run
const (
	TypeLotteryStarted        = "LotteryStarted"
	TypeParticipantRegistered = "ParticipantRegistered"
	TypeDeadlineExtended      = "DeadlineExtended"
	TypeWinnerDrawn           = "WinnerDrawn"
	TypeLotteryFinished       = "LotteryFinished"
)

// Event is a typed payload tagged with the run it belongs to
type Event struct {
	RunID   string `json:"run_id"`
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// LotteryStartedPayload is the payload for a LotteryStarted event
type LotteryStartedPayload struct {
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
	Restored  int       `json:"restored"`
	WindowSec int       `json:"window_sec"`
}

// ParticipantRegisteredPayload is the payload for a ParticipantRegistered event
type ParticipantRegisteredPayload struct {
	Username     string    `json:"username"`
	Count        int       `json:"count"`
	RegisteredAt time.Time `json:"registered_at"`
}

// DeadlineExtendedPayload is the payload for a DeadlineExtended event
type DeadlineExtendedPayload struct {
	Count       int       `json:"count"`
	ExtendedBy  string    `json:"extended_by"`
	NewDeadline time.Time `json:"new_deadline"`
}

// WinnerDrawnPayload is the payload for a WinnerDrawn event
type WinnerDrawnPayload struct {
	Winner       string    `json:"winner"`
	Participants int       `json:"participants"`
	DrawnAt      time.Time `json:"drawn_at"`
}

// LotteryFinishedPayload is the payload for a LotteryFinished event
type LotteryFinishedPayload struct {
	FinishedAt time.Time `json:"finished_at"`
	Duration   string    `json:"duration"`
	Reason     string    `json:"reason"`
}
