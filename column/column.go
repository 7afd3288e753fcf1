package column

import (
	"fmt"
	"iter"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
)

const (
	// frameHeaderSize is the container overhead before the body: a 4-byte
	// little-endian body length plus the subtype byte. The length covers
	// the body only.
	frameHeaderSize = 5

	// MaxBodySize caps the accepted body length; anything larger is
	// treated as corrupt framing.
	MaxBodySize = 16 * 1024 * 1024
)

// Column is a decoded handle over a framed column blob. It borrows the
// frame bytes passed to Decode and owns the delta store that backs
// materialised elements, so elements yielded by its iterators stay valid
// for the Column's lifetime.
//
// Column is a cheap value; copies share the same frame and store. Iterating
// a single Column from multiple goroutines concurrently requires external
// synchronisation.
type Column struct {
	data  []byte
	body  []byte
	store *DeltaStore
}

// Decode validates the container framing of data and returns a Column over
// it. The body itself is validated lazily during iteration.
//
// Decode fails with errs.ErrMalformedContainer when the frame is shorter
// than a minimal column, the length prefix disagrees with the input length
// or exceeds MaxBodySize, the subtype is not SubtypeColumn, the final byte
// is not the zero terminator, or a non-empty body does not begin with a
// literal opcode.
func Decode(data []byte) (Column, error) {
	if len(data) < frameHeaderSize+1 {
		return Column{}, fmt.Errorf("%w: %d bytes is below the minimum frame size",
			errs.ErrMalformedContainer, len(data))
	}

	bodyLen := int(engine.Uint32(data[:4]))
	if bodyLen < 1 || bodyLen > MaxBodySize {
		return Column{}, fmt.Errorf("%w: body length %d out of range", errs.ErrMalformedContainer, bodyLen)
	}
	if bodyLen != len(data)-frameHeaderSize {
		return Column{}, fmt.Errorf("%w: body length %d does not match input size %d",
			errs.ErrMalformedContainer, bodyLen, len(data))
	}
	if subtype := format.ContainerSubtype(data[4]); subtype != format.SubtypeColumn {
		return Column{}, fmt.Errorf("%w: unexpected subtype %s", errs.ErrMalformedContainer, subtype)
	}

	body := data[frameHeaderSize:]
	if body[len(body)-1] != 0 {
		return Column{}, fmt.Errorf("%w: missing terminator byte", errs.ErrMalformedContainer)
	}
	if len(body) > 1 && (body[0] == 0 || body[0] > 0x1F) {
		return Column{}, fmt.Errorf("%w: body must begin with a literal element, found 0x%02x",
			errs.ErrMalformedContainer, body[0])
	}

	return Column{data: data, body: body, store: &DeltaStore{}}, nil
}

// Bytes returns the full frame, including the length prefix and subtype.
func (c Column) Bytes() []byte {
	return c.data
}

// Body returns the instruction stream, including the terminator byte.
func (c Column) Body() []byte {
	return c.body
}

// IsEmpty reports whether the column holds no elements: a body of exactly
// one terminator byte.
func (c Column) IsEmpty() bool {
	return len(c.body) <= 1
}

// NFields returns the number of present positions in the column. It is a
// full forward scan; skipped positions do not count.
func (c Column) NFields() int {
	count := 0
	it := c.Iter()
	for it.Next() {
		count++
	}

	return count
}

// At returns the element at the given logical position. Absent positions,
// positions past the end, and malformed streams yield the end-of-sequence
// sentinel with ok=false. Lookup is a linear scan from the start.
func (c Column) At(index int) (elem element.Element, ok bool) {
	it := c.Iter()
	for it.Next() {
		if it.Index() == index {
			return it.Value(), true
		}
		if it.Index() > index {
			break
		}
	}

	return element.EOO(), false
}

// All returns a forward iterator over (index, element) pairs. Iteration
// stops early on a malformed stream; use Iter directly when the error
// matters.
func (c Column) All() iter.Seq2[int, element.Element] {
	return func(yield func(int, element.Element) bool) {
		it := c.Iter()
		for it.Next() {
			if !yield(it.Index(), it.Value()) {
				return
			}
		}
	}
}

// Iter returns a new forward iterator positioned before the first element.
func (c Column) Iter() *Iterator {
	return &Iterator{
		body:  c.body,
		store: c.store,
		cur:   element.EOO(),
		delta: 1,
	}
}
