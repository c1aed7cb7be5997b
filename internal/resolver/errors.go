package resolver

import (
	"errors"
	"fmt"
)

// ErrNotEnoughFiles is returned when an operation's minimum cardinality
// is not met (merge and combine need at least two distinct inputs).
var ErrNotEnoughFiles = errors.New("not enough files")

// InvalidIndexError names the 1-based index that fell outside the
// user's registry, or the token that was not a number at all. The
// whole command aborts; nothing runs partially.
type InvalidIndexError struct {
	Index int
	Token string
	Count int
}

func (e *InvalidIndexError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("%q is not a file number", e.Token)
	}
	return fmt.Sprintf("file #%d does not exist (you have %d)", e.Index, e.Count)
}

type InvalidRangeError struct {
	Spec   string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Spec, e.Reason)
}
