package column

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/colcodec/element"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
)

// frame wraps a body in the column container framing.
func frame(body ...byte) []byte {
	out := engine.AppendUint32(nil, uint32(len(body))) //nolint:gosec
	out = append(out, byte(format.SubtypeColumn))

	return append(out, body...)
}

// exampleBody is a typical metric run: a hundred repeats of 72.0, three
// half-degree steps, a two-position gap, and one trailing repeat.
func exampleBody() []byte {
	body := element.Double(72.0).Raw()
	return append(body, 0x86, 0x43, 0x81, 0x6B, 0x32, 0x22, 0x41, 0x00)
}

func TestDecode(t *testing.T) {
	t.Run("Empty column", func(t *testing.T) {
		col, err := Decode(frame(0x00))
		require.NoError(t, err)
		require.True(t, col.IsEmpty())
		require.Equal(t, 0, col.NFields())

		it := col.Iter()
		require.False(t, it.Next())
		require.NoError(t, it.Err())
	})

	t.Run("Example column", func(t *testing.T) {
		col, err := Decode(frame(exampleBody()...))
		require.NoError(t, err)
		require.False(t, col.IsEmpty())
		require.Equal(t, 104, col.NFields())
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := Decode([]byte{0x01, 0x00})
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("Length mismatch", func(t *testing.T) {
		data := frame(0x00)
		data[0] = 9

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("Wrong subtype", func(t *testing.T) {
		data := frame(0x00)
		data[4] = byte(format.SubtypeColumnSet)

		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("Missing terminator", func(t *testing.T) {
		_, err := Decode(frame(0x00, 0x41))
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})

	t.Run("Body must begin with a literal", func(t *testing.T) {
		_, err := Decode(frame(0x22, 0x00))
		require.ErrorIs(t, err, errs.ErrMalformedContainer)

		_, err = Decode(frame(0x00, 0x00))
		require.ErrorIs(t, err, errs.ErrMalformedContainer)
	})
}

func TestColumnIteration(t *testing.T) {
	col, err := Decode(frame(exampleBody()...))
	require.NoError(t, err)

	t.Run("Yields the expected sequence", func(t *testing.T) {
		var indices []int
		var values []float64
		for idx, elem := range col.All() {
			indices = append(indices, idx)
			values = append(values, elem.Double())
		}

		require.Len(t, indices, 104)
		for i := 0; i <= 99; i++ {
			require.Equal(t, i, indices[i])
			require.Equal(t, 72.0, values[i])
		}
		require.Equal(t, []int{100, 101, 102, 105}, indices[100:])
		require.Equal(t, []float64{72.5, 73.0, 73.5, 73.5}, values[100:])
	})

	t.Run("Repeated traversals share one store", func(t *testing.T) {
		fresh, err := Decode(frame(exampleBody()...))
		require.NoError(t, err)

		first := fresh.Iter()
		second := fresh.Iter()
		for first.Next() {
			require.True(t, second.Next())
			require.True(t, first.Value().BinaryEqual(second.Value()))
			require.Equal(t, first.Index(), second.Index())
		}
		require.False(t, second.Next())

		// One SetDelta application plus two Delta steps.
		require.Equal(t, 3, fresh.store.Len())
	})
}

func TestColumnAt(t *testing.T) {
	col, err := Decode(frame(exampleBody()...))
	require.NoError(t, err)

	tests := []struct {
		index int
		want  float64
		ok    bool
	}{
		{0, 72.0, true},
		{1, 72.0, true},
		{99, 72.0, true},
		{100, 72.5, true},
		{102, 73.5, true},
		{103, 0, false}, // absent
		{104, 0, false}, // absent
		{105, 73.5, true},
		{106, 0, false}, // past the end
		{9999, 0, false},
	}

	for _, tt := range tests {
		elem, ok := col.At(tt.index)
		require.Equal(t, tt.ok, ok, "index %d", tt.index)
		if tt.ok {
			require.Equal(t, tt.want, elem.Double(), "index %d", tt.index)
		} else {
			require.True(t, elem.IsEOO(), "index %d", tt.index)
		}
	}
}
