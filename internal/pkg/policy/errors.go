package policy

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey marks a config key outside the allow-list.
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue marks a value that fails its key's type or range check.
	ErrInvalidValue = errors.New("invalid config value")
	// ErrNothingToRollback is returned when a key has neither an active
	// override nor audit history.
	ErrNothingToRollback = errors.New("nothing to roll back")
)

// KeyError carries the offending key of a rejected config mutation.
type KeyError struct {
	Key    string
	Reason string
	err    error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("config key %q: %s", e.Key, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.err
}

func unknownKeyError(key string) *KeyError {
	return &KeyError{Key: key, Reason: "not in allow-list", err: ErrUnknownKey}
}

func invalidValueError(key, reason string) *KeyError {
	return &KeyError{Key: key, Reason: reason, err: ErrInvalidValue}
}
