package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested album, artist, track or playlist does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrServerOffline indicates the streaming backend is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates authentication failed
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrNotPurchased indicates the operation requires owning the album
	ErrNotPurchased = errors.New("album has not been purchased")

	// ErrAlreadyPurchased indicates a checkout was requested for an owned album
	ErrAlreadyPurchased = errors.New("album is already purchased")

	// ErrEmptyQueue indicates a play request without any tracks
	ErrEmptyQueue = errors.New("no tracks to play")
)
