package domain

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")

	// ErrConnectivity replaces any transport-level failure where no response
	// was received from the server.
	ErrConnectivity = errors.New("unable to reach the server, check your connection")
)
