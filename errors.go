package memorydb

import (
	"errors"

	"github.com/southvictor/memory-db/store"
)

var _ error = (*Error)(nil)

// Sentinels for failures that originate in this package rather than in a
// storage engine. Engine failures carry the sentinels from the store package.
var (
	// ErrDecodeFailed is emitted when a stored fragment cannot be decoded into a value.
	ErrDecodeFailed = errors.New("decode failed")

	// ErrEncodeFailed is emitted when a value cannot be encoded into a storable fragment.
	ErrEncodeFailed = errors.New("encode failed")

	// ErrKeyInvalid is emitted when a key would not survive a save/load round trip.
	ErrKeyInvalid = errors.New("invalid key")

	// ErrOptionsInvalid is emitted when Options carry an unknown backend or invalid values.
	ErrOptionsInvalid = errors.New("invalid options")
)

// ErrorName represents the name of an error.
type ErrorName string

const (
	// DecodeError is emitted when a stored fragment cannot be decoded into a value.
	DecodeError ErrorName = "DecodeError"

	// EncodeError is emitted when a value cannot be encoded into a storable fragment.
	EncodeError ErrorName = "EncodeError"

	// IOError is emitted when a filesystem or engine operation fails.
	IOError ErrorName = "IOError"

	// InvalidKeyError is emitted when a key is rejected before any data is written.
	InvalidKeyError ErrorName = "InvalidKeyError"

	// OptionsError is emitted when Options fail validation.
	OptionsError ErrorName = "OptionsError"

	// TimestampParseError is emitted when a backup name cannot be parsed as a timestamp.
	TimestampParseError ErrorName = "TimestampParseError"
)

// Error represents a classified error emitted by this package. Every failure
// crossing the public API is one of these; the underlying cause stays
// reachable through errors.Is and errors.As.
type Error struct {
	// Name contains one of the strings associated with an error name.
	Name ErrorName `json:"name"`

	// Message represents the message or description associated with the given error name.
	Message string `json:"message"`

	// cause retains the original error chain.
	cause error
}

// NewError returns a new Error instance.
func NewError(name ErrorName, message string) *Error {
	return &Error{
		Name:    name,
		Message: message,
	}
}

// newError wraps cause in an Error carrying its message.
func newError(name ErrorName, cause error) *Error {
	return &Error{
		Name:    name,
		Message: cause.Error(),
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Name) + ": " + e.Message
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// classify downgrades internal errors to structured Errors at the API
// boundary. Anything not recognized came out of an engine's filesystem work
// and is reported as an IOError.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return dbErr
	}

	switch {
	case errors.Is(err, ErrDecodeFailed):
		return newError(DecodeError, err)
	case errors.Is(err, ErrEncodeFailed):
		return newError(EncodeError, err)
	case errors.Is(err, ErrKeyInvalid):
		return newError(InvalidKeyError, err)
	case errors.Is(err, ErrOptionsInvalid):
		return newError(OptionsError, err)
	case errors.Is(err, store.ErrBackupNameUnparsable):
		return newError(TimestampParseError, err)
	}

	return newError(IOError, err)
}
