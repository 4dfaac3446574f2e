package player

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPlayerNotFound is returned when no catalog entry matches
	ErrPlayerNotFound = errors.New("player not found")
	ErrUnknownFormat  = errors.New("unknown import format")
)
