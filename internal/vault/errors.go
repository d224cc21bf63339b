package vault

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that the requested entry has no corresponding
// readable file in the vault. Wrap it with context via fmt.Errorf("...: %w").
var ErrNotFound = errors.New("not found")

// InvalidArgumentError indicates a malformed request argument, such as an
// organization path with empty or traversal segments. It is returned before
// any filesystem path is constructed from the offending value.
type InvalidArgumentError struct {
	Param  string // argument name, e.g. "organization"
	Value  string // the offending value as supplied
	Reason string // why it was rejected
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

// IsNotFound reports whether err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument reports whether err is, or wraps, an
// InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}
