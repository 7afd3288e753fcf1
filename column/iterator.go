package column

import (
	"fmt"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/encoding"
	"github.com/arloliu/colcodec/errs"
)

// Iterator is a forward cursor over a column's instruction stream.
//
// The cursor executes instructions on demand. Its count field tracks the
// remaining repetitions of the current run: positive for a Copy run,
// negative for a Delta run, zero when the next step must fetch a new
// instruction. The logical index advances through skipped positions, so
// Index values are sparse when the column has gaps.
//
// Usage follows the usual scanner shape:
//
//	it := col.Iter()
//	for it.Next() {
//	    use(it.Index(), it.Value())
//	}
//	if err := it.Err(); err != nil {
//	    // the stream was malformed at the reported byte offset
//	}
type Iterator struct {
	body       []byte
	store      *DeltaStore
	cur        element.Element
	err        error
	insn       int   // byte offset of the next instruction
	count      int64 // >0 pending copies, <0 pending deltas, 0 fetch next
	index      int   // logical position of the current element
	deltaIndex int   // next slot in the delta store
	delta      uint64
	started    bool
	done       bool
}

// Next advances to the next present position. It returns false at the end
// of the column or on a malformed stream; the two cases are told apart by
// Err.
func (it *Iterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}

	if !it.started {
		return it.begin()
	}

	return it.advance()
}

// begin decodes the leading literal, which is stored in full and anchors
// every later delta.
func (it *Iterator) begin() bool {
	it.started = true

	if len(it.body) == 0 || it.body[0] == 0 {
		it.done = true
		return false
	}

	elem, err := element.Parse(it.body)
	if err != nil {
		it.fail(0, err)
		return false
	}

	it.cur = elem
	it.insn = elem.Size()

	return true
}

func (it *Iterator) advance() bool {
	for it.count == 0 {
		if it.insn >= len(it.body) {
			it.fail(it.insn, fmt.Errorf("%w: ran past the end of the body", errs.ErrMalformedStream))
			return false
		}
		if it.body[it.insn] == 0 {
			it.cur = element.EOO()
			it.done = true

			return false
		}

		insn, n, err := encoding.Parse(it.body[it.insn:])
		if err != nil {
			it.fail(it.insn, err)
			return false
		}

		switch insn.Kind() {
		case encoding.KindLiteral0, encoding.KindLiteral1:
			elem, perr := element.Parse(it.body[it.insn:])
			if perr != nil {
				it.fail(it.insn, perr)
				return false
			}
			it.cur = elem
			it.count = 1
			it.insn += elem.Size()

		case encoding.KindSkip:
			it.index += int(insn.CountArg()) //nolint:gosec
			it.insn += n

		case encoding.KindDelta:
			cnt := insn.CountArg()
			if cnt == 0 {
				it.fail(it.insn, fmt.Errorf("%w: Delta with zero count", errs.ErrMalformedStream))
				return false
			}
			it.count = -int64(cnt) //nolint:gosec
			it.insn += n

		case encoding.KindCopy:
			cnt := insn.CountArg()
			if cnt == 0 {
				it.fail(it.insn, fmt.Errorf("%w: Copy with zero count", errs.ErrMalformedStream))
				return false
			}
			it.count = int64(cnt) //nolint:gosec
			it.insn += n

		case encoding.KindSetNegDelta, encoding.KindSetDelta:
			arg := insn.DeltaArg()
			if arg == 0 {
				it.fail(it.insn, fmt.Errorf("%w: set-delta with zero argument", errs.ErrMalformedStream))
				return false
			}
			if insn.Kind() == encoding.KindSetNegDelta {
				it.delta = -arg
			} else {
				it.delta = arg
			}
			if !it.applyDelta() {
				return false
			}
			it.count = 1
			it.insn += n
		}
	}

	it.index++

	if it.count > 0 {
		it.count-- // Copy step, current element unchanged
	} else {
		it.count++
		if !it.applyDelta() {
			return false
		}
	}

	return true
}

func (it *Iterator) applyDelta() bool {
	elem, err := it.store.Apply(it.deltaIndex, it.cur, it.delta)
	if err != nil {
		it.fail(it.insn, err)
		return false
	}

	it.deltaIndex++
	it.cur = elem

	return true
}

// NextDistinct fast-forwards through the remaining repetitions of the
// current Copy run and advances once, so the next element yielded differs
// from the repeated value (or iteration ends). A pending Delta run is not
// skipped; every delta application changes the value anyway.
func (it *Iterator) NextDistinct() bool {
	if it.count > 0 {
		it.index += int(it.count)
		it.count = 0
	}

	return it.Next()
}

// Index returns the logical position of the current element.
func (it *Iterator) Index() int {
	return it.index
}

// Value returns the current element. Before the first Next and after the
// end it returns the end-of-sequence sentinel.
func (it *Iterator) Value() element.Element {
	return it.cur
}

// Err returns the malformed-stream error that stopped iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Equal reports whether two cursors over the same column sit at the same
// instruction byte with the same residual run count.
func (it *Iterator) Equal(other *Iterator) bool {
	return &it.body[0] == &other.body[0] && it.insn == other.insn && it.count == other.count
}

func (it *Iterator) fail(offset int, err error) {
	it.err = fmt.Errorf("at byte offset %d: %w", offset, err)
	it.done = true
	it.cur = element.EOO()
}
