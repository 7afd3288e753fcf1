package column

import (
	"fmt"
	"iter"

	"github.com/arloliu/colcodec/compress"
	"github.com/arloliu/colcodec/errs"
	"github.com/arloliu/colcodec/format"
	"github.com/arloliu/colcodec/internal/hash"
	"github.com/arloliu/colcodec/internal/options"
	"github.com/arloliu/colcodec/internal/pool"
)

const (
	setMagic   uint16 = 0xC017
	setVersion byte   = 0x01

	// setHeaderSize covers magic, version, compression, and column count.
	setHeaderSize = 8

	// setIndexEntrySize covers field ID, payload offset, and frame length.
	setIndexEntrySize = 16

	// maxSetColumns bounds the column count read from a header before the
	// index is trusted.
	maxSetColumns = 1 << 20
)

// setEntry is one column registered with a SetBuilder, in insertion order.
type setEntry struct {
	id  uint64
	col Column
}

// SetBuilder packs named columns into a single framed blob. Column names
// are hashed to 64-bit field IDs with xxHash64; the names themselves are
// not stored.
type SetBuilder struct {
	compression format.CompressionType
	entries     []setEntry
	used        map[uint64]struct{}
}

// SetOption configures a SetBuilder.
type SetOption = options.Option[*SetBuilder]

// WithCompression selects the codec applied to the packed payload.
// The default is no compression.
func WithCompression(c format.CompressionType) SetOption {
	return options.New(func(sb *SetBuilder) error {
		if _, err := compress.GetCodec(c); err != nil {
			return err
		}
		sb.compression = c

		return nil
	})
}

// NewSetBuilder creates a SetBuilder with the given options.
func NewSetBuilder(opts ...SetOption) (*SetBuilder, error) {
	sb := &SetBuilder{
		compression: format.CompressionNone,
		used:        make(map[uint64]struct{}),
	}
	if err := options.Apply(sb, opts...); err != nil {
		return nil, err
	}

	return sb, nil
}

// Add registers a finished column under the given field name. Two names
// hashing to the same ID are rejected with errs.ErrDuplicateColumn.
func (sb *SetBuilder) Add(name string, col Column) error {
	id := hash.ID(name)
	if _, ok := sb.used[id]; ok {
		return fmt.Errorf("%w: field %q (ID 0x%016x)", errs.ErrDuplicateColumn, name, id)
	}

	sb.used[id] = struct{}{}
	sb.entries = append(sb.entries, setEntry{id: id, col: col})

	return nil
}

// Pack serialises the set:
//
//	[uint32 LE body length][subtype 0x08]
//	[magic uint16 LE][version byte][compression byte][count uint32 LE]
//	count x [id uint64 LE][offset uint32 LE][length uint32 LE]
//	payload: concatenated column frames, compressed as a whole
//
// Offsets address the decompressed payload.
func (sb *SetBuilder) Pack() ([]byte, error) {
	codec, err := compress.GetCodec(sb.compression)
	if err != nil {
		return nil, err
	}

	payload := pool.GetSetBuffer()
	defer pool.PutSetBuffer(payload)

	type placed struct {
		offset uint32
		length uint32
	}
	places := make([]placed, len(sb.entries))
	for i, e := range sb.entries {
		frame := e.col.Bytes()
		places[i] = placed{offset: uint32(payload.Len()), length: uint32(len(frame))} //nolint:gosec
		payload.MustWrite(frame)
	}

	compressed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress set payload: %w", err)
	}

	bodyLen := setHeaderSize + len(sb.entries)*setIndexEntrySize + len(compressed)
	out := make([]byte, 0, frameHeaderSize+bodyLen)
	out = engine.AppendUint32(out, uint32(bodyLen)) //nolint:gosec
	out = append(out, byte(format.SubtypeColumnSet))
	out = engine.AppendUint16(out, setMagic)
	out = append(out, setVersion, byte(sb.compression))
	out = engine.AppendUint32(out, uint32(len(sb.entries))) //nolint:gosec
	for i, e := range sb.entries {
		out = engine.AppendUint64(out, e.id)
		out = engine.AppendUint32(out, places[i].offset)
		out = engine.AppendUint32(out, places[i].length)
	}
	out = append(out, compressed...)

	return out, nil
}

// Set is a decoded collection of columns keyed by field ID.
type Set struct {
	columns map[uint64]Column
	order   []uint64
}

// UnpackSet decodes a blob produced by SetBuilder.Pack.
func UnpackSet(data []byte) (Set, error) {
	if len(data) < frameHeaderSize+setHeaderSize {
		return Set{}, fmt.Errorf("%w: %d bytes is below the minimum set size",
			errs.ErrInvalidHeaderSize, len(data))
	}

	bodyLen := int(engine.Uint32(data[:4]))
	if bodyLen != len(data)-frameHeaderSize {
		return Set{}, fmt.Errorf("%w: body length %d does not match input size %d",
			errs.ErrMalformedContainer, bodyLen, len(data))
	}
	if subtype := format.ContainerSubtype(data[4]); subtype != format.SubtypeColumnSet {
		return Set{}, fmt.Errorf("%w: unexpected subtype %s", errs.ErrMalformedContainer, subtype)
	}

	body := data[frameHeaderSize:]
	if magic := engine.Uint16(body[:2]); magic != setMagic {
		return Set{}, fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, magic)
	}
	if body[2] != setVersion {
		return Set{}, fmt.Errorf("%w: unsupported version %d", errs.ErrMalformedContainer, body[2])
	}

	compression := format.CompressionType(body[3])
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return Set{}, err
	}

	count := int(engine.Uint32(body[4:8]))
	if count < 0 || count > maxSetColumns {
		return Set{}, fmt.Errorf("%w: column count %d out of range", errs.ErrMalformedContainer, count)
	}

	indexEnd := setHeaderSize + count*setIndexEntrySize
	if len(body) < indexEnd {
		return Set{}, fmt.Errorf("%w: index truncated", errs.ErrInvalidIndexEntry)
	}

	payload, err := codec.Decompress(body[indexEnd:])
	if err != nil {
		return Set{}, fmt.Errorf("failed to decompress set payload: %w", err)
	}

	set := Set{columns: make(map[uint64]Column, count)}
	for i := range count {
		entry := body[setHeaderSize+i*setIndexEntrySize:]
		id := engine.Uint64(entry[:8])
		offset := int(engine.Uint32(entry[8:12]))
		length := int(engine.Uint32(entry[12:16]))
		if offset < 0 || length < 0 || offset+length > len(payload) {
			return Set{}, fmt.Errorf("%w: column 0x%016x spans [%d, %d) of a %d-byte payload",
				errs.ErrInvalidIndexEntry, id, offset, offset+length, len(payload))
		}

		col, derr := Decode(payload[offset : offset+length])
		if derr != nil {
			return Set{}, fmt.Errorf("column 0x%016x: %w", id, derr)
		}

		set.columns[id] = col
		set.order = append(set.order, id)
	}

	return set, nil
}

// Len returns the number of columns in the set.
func (s Set) Len() int {
	return len(s.columns)
}

// IDs returns the field IDs in pack order.
func (s Set) IDs() []uint64 {
	return s.order
}

// Column returns the column with the given field ID.
func (s Set) Column(id uint64) (Column, error) {
	col, ok := s.columns[id]
	if !ok {
		return Column{}, fmt.Errorf("%w: ID 0x%016x", errs.ErrColumnNotFound, id)
	}

	return col, nil
}

// ColumnByName returns the column whose field name hashes to a stored ID.
func (s Set) ColumnByName(name string) (Column, error) {
	col, ok := s.columns[hash.ID(name)]
	if !ok {
		return Column{}, fmt.Errorf("%w: field %q", errs.ErrColumnNotFound, name)
	}

	return col, nil
}

// AllColumns iterates columns in pack order, yielding field ID and column.
func (s Set) AllColumns() iter.Seq2[uint64, Column] {
	return func(yield func(uint64, Column) bool) {
		for _, id := range s.order {
			if !yield(id, s.columns[id]) {
				return
			}
		}
	}
}
