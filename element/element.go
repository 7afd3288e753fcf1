// Package element implements the self-describing typed scalar stored in a
// column.
//
// An element is laid out as a single-byte type tag, one empty name byte, and
// a type-specific fixed-size value payload. The end-of-sequence sentinel is
// the lone type tag 0x00 with no name byte and no payload. All multi-byte
// payloads are little-endian.
//
// Elements are cheap value types wrapping a byte slice; they borrow the
// memory they were parsed from. Use Copy to detach one from its backing
// buffer.
package element

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/colcodec/endian"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
)

// HeaderSize is the number of bytes before the value payload: the type tag
// and the empty name byte.
const HeaderSize = 2

var engine = endian.GetLittleEndianEngine()

// Element is a reference to one encoded scalar. The zero Element is the
// end-of-sequence sentinel.
type Element struct {
	raw []byte
}

// EOO returns the end-of-sequence sentinel element.
func EOO() Element {
	return Element{raw: []byte{byte(format.TypeEOO)}}
}

// Double constructs a Double element.
func Double(v float64) Element {
	return fixed(format.TypeDouble, engine.AppendUint64(nil, math.Float64bits(v)))
}

// Bool constructs a Bool element.
func Bool(v bool) Element {
	b := byte(0)
	if v {
		b = 1
	}

	return fixed(format.TypeBool, []byte{b})
}

// DateTime constructs a DateTime element from milliseconds since the epoch.
func DateTime(millis int64) Element {
	return fixed(format.TypeDateTime, engine.AppendUint64(nil, uint64(millis))) //nolint:gosec
}

// Null constructs a Null element.
func Null() Element {
	return fixed(format.TypeNull, nil)
}

// Int32 constructs an Int32 element.
func Int32(v int32) Element {
	return fixed(format.TypeInt32, engine.AppendUint32(nil, uint32(v))) //nolint:gosec
}

// Timestamp constructs a Timestamp element from an opaque 64-bit tick value.
func Timestamp(ticks uint64) Element {
	return fixed(format.TypeTimestamp, engine.AppendUint64(nil, ticks))
}

// Int64 constructs an Int64 element.
func Int64(v int64) Element {
	return fixed(format.TypeInt64, engine.AppendUint64(nil, uint64(v))) //nolint:gosec
}

// Decimal128 constructs a Decimal128 element from its low and high 64-bit
// halves. Decimal128 payloads exceed the delta ceiling, so these elements
// are always stored as literals.
func Decimal128(low, high uint64) Element {
	value := engine.AppendUint64(nil, low)
	value = engine.AppendUint64(value, high)

	return fixed(format.TypeDecimal128, value)
}

func fixed(t format.ElementType, value []byte) Element {
	raw := make([]byte, 0, HeaderSize+len(value))
	raw = append(raw, byte(t), 0)
	raw = append(raw, value...)

	return Element{raw: raw}
}

// Parse reads one element from the start of data. The element borrows from
// data; it stays valid only while data does.
//
// Parse fails with errs.ErrUnknownElementType for unrecognized tags,
// errs.ErrMalformedStream for a non-empty name byte or a truncated payload.
func Parse(data []byte) (Element, error) {
	if len(data) == 0 {
		return Element{}, fmt.Errorf("%w: empty input", errs.ErrMalformedStream)
	}

	t := format.ElementType(data[0])
	if t == format.TypeEOO {
		return Element{raw: data[:1]}, nil
	}

	size, ok := t.ValueSize()
	if !ok {
		return Element{}, fmt.Errorf("%w: tag 0x%02x", errs.ErrUnknownElementType, data[0])
	}

	total := HeaderSize + size
	if len(data) < total {
		return Element{}, fmt.Errorf("%w: element truncated, need %d bytes, have %d",
			errs.ErrMalformedStream, total, len(data))
	}
	if data[1] != 0 {
		return Element{}, fmt.Errorf("%w: element with non-empty name", errs.ErrMalformedStream)
	}

	return Element{raw: data[:total]}, nil
}

// Type returns the element's type tag.
func (e Element) Type() format.ElementType {
	if len(e.raw) == 0 {
		return format.TypeEOO
	}

	return format.ElementType(e.raw[0])
}

// IsEOO reports whether the element is the end-of-sequence sentinel.
func (e Element) IsEOO() bool {
	return e.Type() == format.TypeEOO
}

// Raw returns the element's full encoded bytes (type tag, name byte, value).
// The sentinel is a single zero byte.
func (e Element) Raw() []byte {
	if len(e.raw) == 0 {
		return []byte{byte(format.TypeEOO)}
	}

	return e.raw
}

// Size returns the total encoded size in bytes.
func (e Element) Size() int {
	if len(e.raw) == 0 {
		return 1
	}

	return len(e.raw)
}

// Value returns the value payload bytes. The sentinel and Null have none.
func (e Element) Value() []byte {
	if len(e.raw) <= HeaderSize {
		return nil
	}

	return e.raw[HeaderSize:]
}

// ValueSize returns the length of the value payload in bytes.
func (e Element) ValueSize() int {
	if len(e.raw) <= HeaderSize {
		return 0
	}

	return len(e.raw) - HeaderSize
}

// BinaryEqual reports whether two elements have identical raw bytes.
func (e Element) BinaryEqual(other Element) bool {
	return bytes.Equal(e.Raw(), other.Raw())
}

// Copy returns an element backed by freshly allocated memory, detached from
// the buffer it was parsed out of.
func (e Element) Copy() Element {
	if len(e.raw) == 0 {
		return EOO()
	}

	raw := make([]byte, len(e.raw))
	copy(raw, e.raw)

	return Element{raw: raw}
}

// Double returns the value as a float64. Valid only for TypeDouble.
func (e Element) Double() float64 {
	return math.Float64frombits(engine.Uint64(e.Value()))
}

// Bool returns the value as a bool. Valid only for TypeBool.
func (e Element) Bool() bool {
	return e.Value()[0] != 0
}

// DateTime returns the value as milliseconds since the epoch.
func (e Element) DateTime() int64 {
	return int64(engine.Uint64(e.Value())) //nolint:gosec
}

// Int32 returns the value as an int32. Valid only for TypeInt32.
func (e Element) Int32() int32 {
	return int32(engine.Uint32(e.Value())) //nolint:gosec
}

// Timestamp returns the value as an opaque 64-bit tick value.
func (e Element) Timestamp() uint64 {
	return engine.Uint64(e.Value())
}

// Int64 returns the value as an int64. Valid only for TypeInt64.
func (e Element) Int64() int64 {
	return int64(engine.Uint64(e.Value())) //nolint:gosec
}

// Decimal128 returns the low and high 64-bit halves of the value.
func (e Element) Decimal128() (low, high uint64) {
	v := e.Value()
	return engine.Uint64(v[:8]), engine.Uint64(v[8:])
}

// String renders the element for diagnostics.
func (e Element) String() string {
	switch e.Type() {
	case format.TypeEOO:
		return "EOO"
	case format.TypeDouble:
		return fmt.Sprintf("Double(%g)", e.Double())
	case format.TypeBool:
		return fmt.Sprintf("Bool(%t)", e.Bool())
	case format.TypeDateTime:
		return fmt.Sprintf("DateTime(%d)", e.DateTime())
	case format.TypeNull:
		return "Null"
	case format.TypeInt32:
		return fmt.Sprintf("Int32(%d)", e.Int32())
	case format.TypeTimestamp:
		return fmt.Sprintf("Timestamp(%d)", e.Timestamp())
	case format.TypeInt64:
		return fmt.Sprintf("Int64(%d)", e.Int64())
	case format.TypeDecimal128:
		lo, hi := e.Decimal128()
		return fmt.Sprintf("Decimal128(0x%016x%016x)", hi, lo)
	default:
		return fmt.Sprintf("Unknown(0x%02x)", e.raw[0])
	}
}
