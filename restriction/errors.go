package restriction

import "errors"

var (
	// ErrEmptyModule indicates a restriction was declared without a module or dependency identifier.
	ErrEmptyModule = errors.New("restriction target cannot be empty")

	// ErrInvalidPattern indicates an allow pattern that is empty or cannot be compiled.
	ErrInvalidPattern = errors.New("invalid allow pattern")
)
