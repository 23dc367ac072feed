package session

import "errors"

var (
	// ErrInvalidTransition is returned when a lifecycle transition is not
	// allowed from the current state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrGuardFailed is returned when every guard for a permitted
	// transition rejects it.
	ErrGuardFailed = errors.New("guard condition failed")
)
