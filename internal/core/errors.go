package core

import (
	"errors"
)

// Error taxonomy for the event pipeline. Handlers select response codes by
// matching these with errors.Is; raw driver or transport errors never reach
// a client.
var (
	// ErrInvalidPayload indicates a malformed body or an empty device type.
	ErrInvalidPayload = errors.New("invalid request payload")

	// ErrInsertFailed indicates the event row could not be written.
	ErrInsertFailed = errors.New("failed to store device event")

	// ErrReadFailed indicates the event table could not be read.
	ErrReadFailed = errors.New("failed to read device events")

	// ErrTransport indicates the registration service could not be reached
	// at all.
	ErrTransport = errors.New("device registration request failed")
)
