// Package colcodec implements a compact columnar binary codec for sparse
// sequences of typed scalar values.
//
// A column compresses a logical array A[0..N) where each position holds a
// typed scalar or is absent. Three techniques compound:
//
//   - implied positions: gaps are run-length Skip instructions, indices are
//     never stored
//   - run-length encoding of repeated values and of repeated deltas
//   - delta compression: when consecutive values share a type and differ by
//     a small 64-bit amount, only the delta is stored
//
// The encoded form is a stream of one-byte opcodes with variable-length
// base-128 prefixes, framed as a length-prefixed blob. Typical metric runs
// (a repeated gauge with occasional small steps) compress to a few bytes
// per hundred samples.
//
// # Basic Usage
//
// Building a column:
//
//	builder := colcodec.NewBuilder("temperature")
//	defer builder.Close()
//
//	builder.AppendNext(element.Double(72.0))
//	builder.AppendNext(element.Double(72.0))
//	builder.Append(5, element.Double(72.5)) // positions 2..4 stay absent
//	col, err := builder.Finish()
//
// Reading one back:
//
//	col, err := colcodec.Decode(frame)
//	for idx, elem := range col.All() {
//	    fmt.Printf("%d: %v\n", idx, elem)
//	}
//
// Packing several named columns into one blob:
//
//	sb, _ := column.NewSetBuilder(column.WithCompression(format.CompressionS2))
//	sb.Add("temperature", tempCol)
//	sb.Add("humidity", humCol)
//	blob, err := sb.Pack()
//
// This package provides convenient top-level wrappers around the column
// package; use the column, element, and encoding packages directly for
// fine-grained control.
package colcodec

import (
	"github.com/arloliu/colcodec/column"
	"github.com/arloliu/colcodec/encoding"
	"github.com/arloliu/colcodec/internal/hash"
)

// FieldID computes the 64-bit xxHash64 ID of a field name, as used by
// packed column sets.
func FieldID(name string) uint64 {
	return hash.ID(name)
}

// NewBuilder creates a column builder for the given field name.
func NewBuilder(fieldName string) *column.Builder {
	return column.NewBuilder(fieldName)
}

// Decode validates a framed column blob and returns a handle over it.
func Decode(data []byte) (column.Column, error) {
	return column.Decode(data)
}

// UnpackSet decodes a packed multi-column blob.
func UnpackSet(data []byte) (column.Set, error) {
	return column.UnpackSet(data)
}

// Disassemble renders a column body as a readable instruction listing, for
// debugging and tooling.
func Disassemble(body []byte) string {
	return encoding.Disassemble(body)
}
