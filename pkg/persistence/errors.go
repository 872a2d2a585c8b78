package persistence

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound indicates the requested key holds no value.
var ErrKeyNotFound = errors.New("key not found")

// DecodeError reports a stored value that could not be decoded.
type DecodeError struct {
	Key string // Storage key holding the corrupt value
	Err error  // Underlying decode error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode value for key %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StoreError wraps a backend failure with the operation and key involved.
type StoreError struct {
	Op  string // Operation being performed (e.g., "Get", "Set", "Remove")
	Key string // Key or prefix involved
	Err error  // Underlying error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for store errors.
func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// IsKeyNotFound checks if an error indicates an absent key.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsDecodeError checks if an error is a decode failure of a stored value.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError

	return errors.As(err, &decodeErr)
}
