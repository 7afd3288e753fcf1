package column

import (
	"fmt"
	"slices"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/encoding"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
	"github.com/arloliu/colcodec/internal/pool"
)

// Builder constructs a column frame, applying copy, delta, and skip
// compression as elements are appended.
//
// Runs are emitted lazily: binary-equal repeats and repeats of the current
// delta accumulate in a signed deferral counter and flush as a single Copy
// or Delta instruction when the run ends. Appending the same input sequence
// always produces byte-identical output.
//
// Builders are not safe for concurrent use. A Builder whose Append reported
// errs.ErrIndexNotMonotonic is poisoned and refuses further input.
type Builder struct {
	buf       *pool.ByteBuffer
	fieldName string
	err       error

	// last is the last committed base element; lastCell owns its bytes so
	// the base never aliases the growing output buffer.
	last     element.Element
	lastCell [element.HeaderSize + format.MaxValueSize]byte

	delta     uint64 // last emitted delta, 0 when none pending
	index     int    // logical position of the next element
	deferrals int64  // >0 pending copies, <0 pending deltas
	done      bool
}

// NewBuilder creates a Builder for a column of the given field name. The
// name is not serialised into the frame; it feeds the field ID when the
// column is packed into a set.
func NewBuilder(fieldName string) *Builder {
	b := &Builder{
		buf:       pool.GetColumnBuffer(),
		fieldName: fieldName,
		last:      element.EOO(),
	}

	// Reserve the frame header; the length prefix is back-patched on Finish.
	b.buf.MustWrite([]byte{0, 0, 0, 0, byte(format.SubtypeColumn)})

	return b
}

// FieldName returns the name the builder was created with.
func (b *Builder) FieldName() string {
	return b.fieldName
}

// Append adds elem at the given logical index, emitting a Skip for any gap
// since the previous position. The index must not be lower than the next
// position; appending at it exactly is the common contiguous case.
//
// Appending the end-of-sequence sentinel terminates the stream, like
// Finish. Appending after Finish reopens the column by truncating the
// terminator.
func (b *Builder) Append(index int, elem element.Element) error {
	if b.err != nil {
		return b.err
	}
	if elem.ValueSize() > format.MaxValueSize {
		return fmt.Errorf("%w: %d-byte value exceeds %d-byte maximum",
			errs.ErrValueTooLarge, elem.ValueSize(), format.MaxValueSize)
	}

	b.maybeReopen()

	if index < b.index {
		b.err = fmt.Errorf("%w: index %d is before the next position %d",
			errs.ErrIndexNotMonotonic, index, b.index)

		return b.err
	}
	if index > b.index && !elem.IsEOO() {
		b.flushDeferrals()
		b.buf.B = encoding.NewCount(encoding.KindSkip, uint64(index-b.index)).Append(b.buf.B)
		b.index = index
	}

	if elem.IsEOO() {
		b.emitLiteral(elem)
		return nil
	}

	if !b.tryCopy(elem) && !b.tryDelta(elem) {
		b.emitLiteral(elem)
	}

	b.index++

	return nil
}

// AppendNext adds elem at the next logical index without skipping.
func (b *Builder) AppendNext(elem element.Element) error {
	return b.Append(b.index, elem)
}

// Finish flushes pending runs, appends the terminator, back-patches the
// length prefix, and returns a decodable Column over a snapshot of the
// frame. Finish is idempotent, and the builder can keep appending
// afterwards; the next Finish re-terminates the stream.
func (b *Builder) Finish() (Column, error) {
	if b.err != nil {
		return Column{}, b.err
	}

	if !b.done {
		b.emitLiteral(element.EOO())
	}

	return Decode(slices.Clone(b.buf.Bytes()))
}

// Close releases the builder's buffer back to the pool. The builder is
// unusable afterwards.
func (b *Builder) Close() {
	if b.buf != nil {
		pool.PutColumnBuffer(b.buf)
		b.buf = nil
	}
	if b.err == nil {
		b.err = errs.ErrBuilderFinished
	}
}

// maybeReopen removes the terminator written by a previous Finish so the
// stream can continue.
func (b *Builder) maybeReopen() {
	if !b.done {
		return
	}

	b.buf.Truncate(b.buf.Len() - 1)
	b.done = false
}

// tryCopy defers elem as a repeat of the last committed value.
func (b *Builder) tryCopy(elem element.Element) bool {
	if b.last.IsEOO() || !elem.BinaryEqual(b.last) {
		return false
	}

	b.flushDeltas()
	b.deferrals++

	return true
}

// tryDelta encodes elem as a delta from the last committed value. A delta
// equal to the current one grows the pending Delta run; a new delta is
// emitted only when its instruction is strictly smaller than the literal it
// replaces.
func (b *Builder) tryDelta(elem element.Element) bool {
	delta := CalculateDelta(b.last, elem)
	if delta == 0 {
		return false
	}

	b.flushCopies()

	if delta == b.delta {
		b.deferrals--
	} else {
		insn := encoding.MakeDelta(delta)
		if insn.Size() >= elem.Size() {
			return false
		}

		// A pending run of the previous delta ends here; it must land
		// before the new delta value takes effect.
		b.flushDeltas()
		b.buf.B = insn.Append(b.buf.B)
		b.delta = delta
	}

	b.last = b.storeLast(elem)

	return true
}

// emitLiteral appends elem verbatim and resets the delta chain. The
// sentinel terminates the stream and back-patches the frame length.
func (b *Builder) emitLiteral(elem element.Element) {
	b.flushDeferrals()

	if elem.IsEOO() {
		b.buf.MustWrite([]byte{0})
		engine.PutUint32(b.buf.B[:4], uint32(b.buf.Len()-frameHeaderSize)) //nolint:gosec
		b.last = element.EOO()
		b.delta = 0
		b.done = true

		return
	}

	b.buf.MustWrite(elem.Raw())
	b.last = b.storeLast(elem)
	b.delta = 0
}

// storeLast copies elem into the builder-owned cell so the committed base
// never aliases the growing output buffer.
func (b *Builder) storeLast(elem element.Element) element.Element {
	n := copy(b.lastCell[:], elem.Raw())
	stored, err := element.Parse(b.lastCell[:n])
	if err != nil {
		// elem was already validated; a parse failure here is impossible.
		panic(fmt.Sprintf("colcodec: storeLast: %v", err))
	}

	return stored
}

func (b *Builder) flushDeferrals() {
	b.flushCopies()
	b.flushDeltas()
}

func (b *Builder) flushCopies() {
	if b.deferrals > 0 {
		b.buf.B = encoding.NewCount(encoding.KindCopy, uint64(b.deferrals)).Append(b.buf.B)
		b.deferrals = 0
	}
}

func (b *Builder) flushDeltas() {
	if b.deferrals < 0 {
		b.buf.B = encoding.NewCount(encoding.KindDelta, uint64(-b.deferrals)).Append(b.buf.B)
		b.deferrals = 0
	}
}
