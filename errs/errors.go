// Package errs defines the sentinel errors shared across colcodec packages.
//
// Callers match them with errors.Is; call sites add context with
// fmt.Errorf("%w: ...", err) wrapping.
package errs

import "errors"

var (
	// ErrMalformedContainer indicates invalid container framing: wrong
	// subtype, bad or absurd length prefix, or a missing terminator byte.
	ErrMalformedContainer = errors.New("malformed container")

	// ErrMalformedStream indicates that instruction decoding failed inside
	// the column body. The wrapped message carries the byte offset.
	ErrMalformedStream = errors.New("malformed instruction stream")

	// ErrIndexNotMonotonic indicates an append at an index lower than the
	// builder's next position. The builder refuses further input.
	ErrIndexNotMonotonic = errors.New("element index not monotonic")

	// ErrValueTooLarge indicates an element payload beyond the supported
	// maximum value size.
	ErrValueTooLarge = errors.New("element value too large")

	// ErrUnknownElementType indicates an unrecognized element type tag.
	ErrUnknownElementType = errors.New("unknown element type")

	// ErrBuilderFinished indicates use of a builder after Close released
	// its buffer. Every later Append or Finish returns it.
	ErrBuilderFinished = errors.New("builder already finished")

	// ErrInvalidMagicNumber indicates a column-set header with a bad magic.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderSize indicates a column-set header shorter than the
	// fixed header size.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidIndexEntry indicates a column-set index entry whose offset
	// or length falls outside the payload.
	ErrInvalidIndexEntry = errors.New("invalid index entry")

	// ErrColumnNotFound indicates a lookup for a column ID or name that is
	// not present in the set.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn indicates two columns in one set hashing to the
	// same field ID.
	ErrDuplicateColumn = errors.New("duplicate column")
)
