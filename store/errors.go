package store

import "errors"

var (
	// ErrLimitExceeded means the user's registry is at its file-count
	// cap or the entry is over the per-file size cap.
	ErrLimitExceeded = errors.New("file limit exceeded")

	// ErrNoPending means a filename or cancel arrived while no
	// operation was awaiting one.
	ErrNoPending = errors.New("no pending operation")
)
