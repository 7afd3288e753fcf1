package column

import (
	"bytes"
	"fmt"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/endian"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
)

var engine = endian.GetLittleEndianEngine()

const (
	cellHeaderSize = element.HeaderSize
	cellValueSize  = format.DeltaValueSize
	cellSize       = cellHeaderSize + cellValueSize
)

// deltaCell holds one materialised delta element: type tag, empty name
// byte, and the full 8-byte value image. Cells are heap-allocated one by
// one so element references into them survive store growth.
type deltaCell [cellSize]byte

// DeltaStore is the append-only arena backing delta-materialised elements.
//
// The k-th cell, once written, never changes: a repeated application at
// index k must produce byte-identical material, which is what lets several
// iterators over one column share a single store. A mismatch means the
// iterators disagreed on the materialisation sequence, which is a bug in
// the caller or the codec, so Apply panics on it rather than returning an
// error.
type DeltaStore struct {
	cells []*deltaCell
}

// Len returns the number of materialised cells.
func (s *DeltaStore) Len() int {
	return len(s.cells)
}

// Apply materialises the k-th delta result: the base element's value plus
// delta, modulo 2^64, truncated to the base's payload length. The returned
// element borrows the cell's storage and stays valid for the store's
// lifetime.
//
// Apply fails with errs.ErrMalformedStream when the base cannot carry a
// delta (no payload, or payload beyond the 8-byte ceiling).
func (s *DeltaStore) Apply(k int, base element.Element, delta uint64) (element.Element, error) {
	size := base.ValueSize()
	if size == 0 || size > cellValueSize {
		return element.Element{}, fmt.Errorf("%w: delta applied to %s with %d-byte value",
			errs.ErrMalformedStream, base.Type(), size)
	}

	var image [cellValueSize]byte
	copy(image[:], base.Value())
	value := engine.Uint64(image[:]) + delta

	var cell deltaCell
	cell[0] = base.Raw()[0]
	engine.PutUint64(cell[cellHeaderSize:], value)

	switch {
	case k == len(s.cells):
		stored := cell
		s.cells = append(s.cells, &stored)
	case k < len(s.cells):
		if !bytes.Equal(cell[:], s.cells[k][:]) {
			panic("colcodec: delta store cell mismatch, iterators diverged")
		}
	default:
		panic("colcodec: delta store index out of sequence")
	}

	elem, err := element.Parse(s.cells[k][:cellHeaderSize+size])
	if err != nil {
		return element.Element{}, err
	}

	return elem, nil
}

// CalculateDelta returns the 64-bit wrapping difference between the value
// payloads of two delta-compatible elements, or 0 when no useful delta
// exists: differing types or payload lengths, payloads beyond the 8-byte
// ceiling, empty payloads, or binary-equal values.
func CalculateDelta(base, modified element.Element) uint64 {
	size := base.ValueSize()
	if base.Type() != modified.Type() || size != modified.ValueSize() ||
		size > cellValueSize || size == 0 {
		return 0
	}

	var baseImage, modImage [cellValueSize]byte
	copy(baseImage[:], base.Value())
	copy(modImage[:], modified.Value())

	return engine.Uint64(modImage[:]) - engine.Uint64(baseImage[:])
}
