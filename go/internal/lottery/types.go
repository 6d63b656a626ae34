package lottery

import (
	"errors"
	"time"
)

var (
	// ErrInvalidUsername is returned when a username is empty or not alphanumeric
	ErrInvalidUsername = errors.New("invalid username")
	// ErrDuplicateUsername is returned when a username is already registered
	ErrDuplicateUsername = errors.New("duplicate username")
	// ErrNoParticipants is returned when a draw is attempted on an empty registry
	ErrNoParticipants = errors.New("no participants")
)

// Registration is the outcome of an accepted username
type Registration struct {
	Username string    `json:"username"`
	Count    int       `json:"count"`
	Deadline time.Time `json:"deadline"`

	// Extension is set when this registration triggered the one-time deadline extension
	Extension *Extension `json:"extension,omitempty"`
}

// Extension describes a one-time push of the registration deadline
type Extension struct {
	Count     int           `json:"count"`
	Threshold int           `json:"threshold"`
	By        time.Duration `json:"by"`
	Deadline  time.Time     `json:"deadline"`
}

// DrawResult is the outcome of a winner draw
type DrawResult struct {
	Winner       string `json:"winner"`
	Participants int    `json:"participants"`
}

// ExtensionPolicy decides when and by how much the deadline is pushed back
type ExtensionPolicy struct {
	Threshold int
	Increment time.Duration
}

// DefaultExtensionPolicy extends by 30 minutes when fewer than 5 users joined
func DefaultExtensionPolicy() ExtensionPolicy {
	return ExtensionPolicy{
		Threshold: 5,
		Increment: 30 * time.Minute,
	}
}
