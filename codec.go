package memorydb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Codec converts between domain values and the fragments a storage engine
// persists. Encoded fragments must stay on a single line; the flat-file
// engine stores one record per line and cannot represent embedded breaks.
type Codec[T any] interface {
	// Encode turns a value into the fragment persisted under its key.
	Encode(value T) ([]byte, error)

	// Decode turns a stored fragment back into a value.
	Decode(fragment []byte) (T, error)
}

var (
	_ Codec[int]             = JSONCodec[int]{}
	_ Codec[json.RawMessage] = RawCodec{}
)

// JSONCodec encodes values as compact JSON. It is the codec Open installs,
// and the format package-level Load and Save read and write.
type JSONCodec[T any] struct{}

// Encode marshals the value to compact JSON.
func (JSONCodec[T]) Encode(value T) ([]byte, error) {
	fragment, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	return fragment, nil
}

// Decode unmarshals a stored fragment.
func (JSONCodec[T]) Decode(fragment []byte) (T, error) {
	var value T

	err := json.Unmarshal(fragment, &value)
	if err != nil {
		return value, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}

	return value, nil
}

// RawCodec passes JSON through without binding it to a Go type. Values are
// validated and compacted on encode, so callers can hand over indented JSON
// and still get single-line fragments on disk. Tools that operate on
// arbitrary stored data use this codec.
type RawCodec struct{}

// Encode validates the message and compacts it to a single line.
func (RawCodec) Encode(value json.RawMessage) ([]byte, error) {
	var compacted bytes.Buffer

	err := json.Compact(&compacted, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}

	return compacted.Bytes(), nil
}

// Decode validates the stored fragment and returns a copy of it.
func (RawCodec) Decode(fragment []byte) (json.RawMessage, error) {
	if !json.Valid(fragment) {
		return nil, fmt.Errorf("%w: fragment is not valid JSON", ErrDecodeFailed)
	}

	return slices.Clone(fragment), nil
}
