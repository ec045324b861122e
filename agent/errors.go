package agent

import "errors"

var (
	// ErrEmptyName is returned when an agent has no name.
	ErrEmptyName = errors.New("agent name is required")

	// ErrEmptyModel is returned when an option cleared the model identifier.
	ErrEmptyModel = errors.New("agent model is required")

	// ErrEmptyInput is returned by Run for an empty input message.
	ErrEmptyInput = errors.New("input message is required")

	// ErrNilBackend is returned by Run when no backend was supplied.
	ErrNilBackend = errors.New("backend is required")
)
