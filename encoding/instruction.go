package encoding

import (
	"fmt"
	"strings"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
)

// Kind names one of the seven stream operations, addressed by the opcode's
// high nibble.
type Kind uint8

const (
	KindLiteral0    Kind = 0 // embedded element with type tag 0x00-0x0F
	KindLiteral1    Kind = 1 // embedded element with type tag 0x10-0x1F
	KindSkip        Kind = 2 // advance the logical index without emitting
	KindDelta       Kind = 3 // repeat the current delta count times
	KindCopy        Kind = 4 // repeat the current value count times
	KindSetNegDelta Kind = 5 // set a negative delta and apply it once
	KindSetDelta    Kind = 6 // set a positive delta and apply it once
)

func (k Kind) String() string {
	switch k {
	case KindLiteral0:
		return "Literal0"
	case KindLiteral1:
		return "Literal1"
	case KindSkip:
		return "Skip"
	case KindDelta:
		return "Delta"
	case KindCopy:
		return "Copy"
	case KindSetNegDelta:
		return "SetNegDelta"
	case KindSetDelta:
		return "SetDelta"
	default:
		return "Unknown"
	}
}

// Instruction is one parsed or to-be-serialised stream instruction: an
// opcode byte plus its accumulated varint prefix.
//
// For literal instructions the opcode byte is the element's type tag and
// the prefix is always zero.
type Instruction struct {
	prefix uint64
	op     uint8
}

// NewCount builds a Skip, Delta, or Copy instruction carrying count.
// Panics on other kinds; those carry no count argument.
func NewCount(kind Kind, count uint64) Instruction {
	switch kind {
	case KindSkip, KindDelta, KindCopy:
	default:
		panic("NewCount: kind does not take a count argument")
	}

	return Instruction{
		op:     uint8(kind)*16 + uint8(count%16),
		prefix: count / 16,
	}
}

// NewSet builds a SetDelta or SetNegDelta instruction for the given nonzero
// magnitude. Trailing zero nibbles of the magnitude are folded into the
// opcode's shift nibble so the prefix stays minimal. Panics on a zero
// magnitude or other kinds.
func NewSet(kind Kind, magnitude uint64) Instruction {
	if kind != KindSetDelta && kind != KindSetNegDelta {
		panic("NewSet: kind is not a set-delta operation")
	}
	if magnitude == 0 {
		panic("NewSet: zero delta magnitude")
	}

	op := uint8(kind) * 16
	for magnitude%16 == 0 && op%16 < 15 {
		op++
		magnitude /= 16
	}

	return Instruction{op: op, prefix: magnitude - 1}
}

// MakeDelta returns the smaller of SetDelta(delta) and SetNegDelta(-delta)
// for the given two's-complement delta. Equal sizes resolve to SetDelta.
func MakeDelta(delta uint64) Instruction {
	pos := NewSet(KindSetDelta, delta)
	neg := NewSet(KindSetNegDelta, -delta)
	if neg.Size() < pos.Size() {
		return neg
	}

	return pos
}

// Parse reads one instruction from the start of data, returning it along
// with the number of bytes consumed (prefix bytes plus the opcode byte).
//
// For literal instructions the consumed count covers the opcode only; the
// caller reads the element body, which begins at the opcode byte itself.
// Parse fails with errs.ErrMalformedStream when data ends before an opcode
// byte, the prefix is overlong, or the opcode names no operation.
func Parse(data []byte) (Instruction, int, error) {
	prefix, opcode, n, ok := ConsumePrefix(data)
	if !ok {
		return Instruction{}, n, fmt.Errorf("%w: truncated or overlong instruction", errs.ErrMalformedStream)
	}

	insn := Instruction{op: opcode, prefix: prefix}
	if insn.op/16 > uint8(KindSetDelta) {
		return Instruction{}, n, fmt.Errorf("%w: unknown opcode 0x%02x", errs.ErrMalformedStream, opcode)
	}
	if insn.Kind() <= KindLiteral1 && prefix != 0 {
		return Instruction{}, n, fmt.Errorf("%w: literal opcode 0x%02x with varint prefix", errs.ErrMalformedStream, opcode)
	}

	return insn, n, nil
}

// Kind returns the operation named by the opcode's high nibble.
func (i Instruction) Kind() Kind {
	return Kind(i.op / 16)
}

// Op returns the raw opcode byte. For literals this is the element type tag.
func (i Instruction) Op() uint8 {
	return i.op
}

// CountArg decodes the count argument of a Skip, Delta, or Copy.
func (i Instruction) CountArg() uint64 {
	return i.prefix*16 + uint64(i.op%16)
}

// DeltaArg decodes the magnitude of a SetDelta or SetNegDelta:
// (prefix+1) << (shiftNibble*4). The shift wraps modulo 2^64 like the
// delta arithmetic it feeds.
func (i Instruction) DeltaArg() uint64 {
	return (i.prefix + 1) << (uint(i.op%16) * 4)
}

// Size returns the serialised length in bytes: the opcode plus the minimal
// prefix. The end-of-sequence opcode is always a single byte.
func (i Instruction) Size() int {
	if i.op == 0 {
		return 1
	}

	return 1 + PrefixLen(i.prefix)
}

// Append serialises the instruction to dst and returns the extended slice.
// Literal instructions cannot be appended this way; their bytes are the
// element itself.
func (i Instruction) Append(dst []byte) []byte {
	dst = AppendPrefix(dst, i.prefix)
	return append(dst, i.op)
}

// String renders the instruction for diagnostics.
func (i Instruction) String() string {
	switch i.Kind() {
	case KindLiteral0, KindLiteral1:
		return fmt.Sprintf("Literal %s", format.ElementType(i.op))
	case KindSkip, KindDelta, KindCopy:
		return fmt.Sprintf("%s %d", i.Kind(), i.CountArg())
	case KindSetNegDelta, KindSetDelta:
		return fmt.Sprintf("%s %#x << %d", i.Kind(), i.prefix+1, i.op%16)
	default:
		return fmt.Sprintf("Unknown(0x%02x)", i.op)
	}
}

// Disassemble renders a column body as a readable instruction listing.
// Parsing stops at the terminating zero byte or the first malformed
// instruction.
func Disassemble(body []byte) string {
	var sb strings.Builder
	sb.WriteString("[ ")

	off := 0
	for off < len(body) {
		if body[off] == 0 {
			sb.WriteString("EOO")
			break
		}

		insn, n, err := Parse(body[off:])
		if err != nil {
			fmt.Fprintf(&sb, "<error at %d: %v>", off, err)
			break
		}

		if insn.Kind() <= KindLiteral1 {
			elem, perr := element.Parse(body[off:])
			if perr != nil {
				fmt.Fprintf(&sb, "<error at %d: %v>", off, perr)
				break
			}
			off += elem.Size()
		} else {
			off += n
		}

		sb.WriteString(insn.String())
		sb.WriteString(", ")
	}

	sb.WriteString(" ]")

	return sb.String()
}
