package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnknownFlags indicates a flags field carried bits outside the known vocabulary.
	ErrUnknownFlags = errors.New("format: unknown flag bits")
	// ErrInvalidName indicates a name could not be decoded in its declared encoding.
	ErrInvalidName = errors.New("format: invalid name encoding")
)
