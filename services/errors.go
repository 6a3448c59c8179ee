package services

import "errors"

var (
	// ErrRateLimited means the hourly hard cap was hit. The client has to
	// wait for the window to slide; the server never retries.
	ErrRateLimited = errors.New("too many actions in the last hour")

	// ErrNotFound is returned for missing or foreign-owned records. Deleting
	// an already-deleted record is a no-op and never refunds twice.
	ErrNotFound = errors.New("record not found")
)
