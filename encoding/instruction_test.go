package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/errs"
)

func TestNewCount(t *testing.T) {
	t.Run("Small counts are one byte", func(t *testing.T) {
		tests := []struct {
			kind  Kind
			count uint64
			want  []byte
		}{
			{KindSkip, 2, []byte{0x22}},
			{KindSkip, 4, []byte{0x24}},
			{KindDelta, 2, []byte{0x32}},
			{KindDelta, 3, []byte{0x33}},
			{KindCopy, 1, []byte{0x41}},
			{KindCopy, 15, []byte{0x4F}},
		}
		for _, tt := range tests {
			insn := NewCount(tt.kind, tt.count)
			require.Equal(t, tt.want, insn.Append(nil), "%s %d", tt.kind, tt.count)
			require.Equal(t, len(tt.want), insn.Size())
		}
	})

	t.Run("Large counts spill into the prefix", func(t *testing.T) {
		insn := NewCount(KindCopy, 99)
		require.Equal(t, []byte{0x86, 0x43}, insn.Append(nil))
		require.Equal(t, 2, insn.Size())
		require.Equal(t, uint64(99), insn.CountArg())
	})

	t.Run("Round trip", func(t *testing.T) {
		for _, kind := range []Kind{KindSkip, KindDelta, KindCopy} {
			for _, count := range []uint64{1, 15, 16, 17, 99, 1 << 16, 1 << 40} {
				data := NewCount(kind, count).Append(nil)

				parsed, n, err := Parse(data)
				require.NoError(t, err)
				require.Equal(t, len(data), n)
				require.Equal(t, kind, parsed.Kind())
				require.Equal(t, count, parsed.CountArg())
			}
		}
	})

	t.Run("Panics on set-delta kinds", func(t *testing.T) {
		require.Panics(t, func() { NewCount(KindSetDelta, 1) })
	})
}

func TestNewSet(t *testing.T) {
	t.Run("Shift nibble factors trailing zeros", func(t *testing.T) {
		// 2 << 44: mantissa 2 at shift 11, prefix 1.
		insn := NewSet(KindSetDelta, uint64(2)<<44)
		require.Equal(t, []byte{0x81, 0x6B}, insn.Append(nil))
		require.Equal(t, uint64(2)<<44, insn.DeltaArg())
	})

	t.Run("Delta one is a single opcode byte", func(t *testing.T) {
		insn := NewSet(KindSetDelta, 1)
		require.Equal(t, []byte{0x60}, insn.Append(nil))
		require.Equal(t, 1, insn.Size())
		require.Equal(t, uint64(1), insn.DeltaArg())
	})

	t.Run("Shift saturates at fifteen nibbles", func(t *testing.T) {
		// 1 << 60 shifts fully into the nibble; prefix stays 0.
		insn := NewSet(KindSetDelta, uint64(1)<<60)
		require.Equal(t, []byte{0x6F}, insn.Append(nil))
		require.Equal(t, uint64(1)<<60, insn.DeltaArg())
	})

	t.Run("Round trip", func(t *testing.T) {
		for _, magnitude := range []uint64{1, 2, 15, 16, 0x2000, uint64(2) << 44, uint64(1) << 60, ^uint64(0)} {
			for _, kind := range []Kind{KindSetDelta, KindSetNegDelta} {
				data := NewSet(kind, magnitude).Append(nil)

				parsed, n, err := Parse(data)
				require.NoError(t, err)
				require.Equal(t, len(data), n)
				require.Equal(t, kind, parsed.Kind())
				require.Equal(t, magnitude, parsed.DeltaArg())
			}
		}
	})

	t.Run("Panics on zero magnitude", func(t *testing.T) {
		require.Panics(t, func() { NewSet(KindSetDelta, 0) })
	})
}

func TestMakeDelta(t *testing.T) {
	t.Run("Positive small delta", func(t *testing.T) {
		insn := MakeDelta(1)
		require.Equal(t, KindSetDelta, insn.Kind())
		require.Equal(t, 1, insn.Size())
	})

	t.Run("Negative delta picks the shorter form", func(t *testing.T) {
		// -1 as SetDelta needs ten prefix bytes; SetNegDelta(1) is one byte.
		insn := MakeDelta(^uint64(0))
		require.Equal(t, KindSetNegDelta, insn.Kind())
		require.Equal(t, []byte{0x50}, insn.Append(nil))
	})

	t.Run("Tie resolves to SetDelta", func(t *testing.T) {
		// 1<<63 negates to itself, so both forms are the same size.
		insn := MakeDelta(uint64(1) << 63)
		require.Equal(t, KindSetDelta, insn.Kind())
	})

	t.Run("Deterministic", func(t *testing.T) {
		for _, d := range []uint64{1, ^uint64(0), uint64(2) << 44, uint64(1) << 63, 12345} {
			a := MakeDelta(d).Append(nil)
			b := MakeDelta(d).Append(nil)
			require.Equal(t, a, b)
		}
	})
}

func TestParse(t *testing.T) {
	t.Run("Literal opcode", func(t *testing.T) {
		insn, n, err := Parse([]byte{0x01, 0x00, 0xDE, 0xAD})
		require.NoError(t, err)
		require.Equal(t, 1, n)
		require.Equal(t, KindLiteral0, insn.Kind())
		require.Equal(t, uint8(0x01), insn.Op())
	})

	t.Run("Literal1 opcode", func(t *testing.T) {
		insn, _, err := Parse([]byte{0x12})
		require.NoError(t, err)
		require.Equal(t, KindLiteral1, insn.Kind())
	})

	t.Run("Unknown opcode", func(t *testing.T) {
		_, _, err := Parse([]byte{0x70})
		require.ErrorIs(t, err, errs.ErrMalformedStream)
	})

	t.Run("Literal with prefix is malformed", func(t *testing.T) {
		_, _, err := Parse([]byte{0x85, 0x01})
		require.ErrorIs(t, err, errs.ErrMalformedStream)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, _, err := Parse([]byte{0x86})
		require.ErrorIs(t, err, errs.ErrMalformedStream)
	})

	t.Run("Zero argument set-delta parses to zero", func(t *testing.T) {
		// (15+1) << 60 wraps to zero; the decoder rejects it downstream.
		insn, _, err := Parse([]byte{0x8F, 0x6F})
		require.NoError(t, err)
		require.Equal(t, uint64(0), insn.DeltaArg())
	})
}

func TestDisassemble(t *testing.T) {
	body := element.Double(72.0).Raw()
	body = append(body, 0x86, 0x43, 0x81, 0x6B, 0x32, 0x22, 0x41, 0x00)

	out := Disassemble(body)
	require.Contains(t, out, "Literal Double")
	require.Contains(t, out, "Copy 99")
	require.Contains(t, out, "SetDelta 0x2 << 11")
	require.Contains(t, out, "Delta 2")
	require.Contains(t, out, "Skip 2")
	require.Contains(t, out, "Copy 1")
	require.Contains(t, out, "EOO")
}
