package format

type (
	// ElementType is the single-byte type tag of a column element.
	ElementType uint8

	// ContainerSubtype identifies the payload kind of a framed binary blob.
	ContainerSubtype uint8

	// CompressionType selects the compression codec applied to a packed
	// column-set payload.
	CompressionType uint8
)

const (
	TypeEOO        ElementType = 0x00 // TypeEOO is the end-of-sequence sentinel.
	TypeDouble     ElementType = 0x01 // TypeDouble is a 64-bit IEEE-754 float.
	TypeBool       ElementType = 0x08 // TypeBool is a single-byte boolean.
	TypeDateTime   ElementType = 0x09 // TypeDateTime is a 64-bit millisecond timestamp.
	TypeNull       ElementType = 0x0A // TypeNull carries no payload.
	TypeInt32      ElementType = 0x10 // TypeInt32 is a 32-bit signed integer.
	TypeTimestamp  ElementType = 0x11 // TypeTimestamp is a 64-bit opaque tick value.
	TypeInt64      ElementType = 0x12 // TypeInt64 is a 64-bit signed integer.
	TypeDecimal128 ElementType = 0x13 // TypeDecimal128 is a 128-bit decimal, stored as literals only.

	SubtypeColumn    ContainerSubtype = 0x07 // SubtypeColumn frames a single column body.
	SubtypeColumnSet ContainerSubtype = 0x08 // SubtypeColumnSet frames a packed set of columns.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

const (
	// MaxValueSize is the largest element payload the codec represents.
	// Payloads above DeltaValueSize and up to MaxValueSize are stored as
	// literals only and never participate in delta encoding.
	MaxValueSize = 16

	// DeltaValueSize is the largest payload eligible for delta encoding.
	DeltaValueSize = 8
)

// ValueSize returns the fixed payload size in bytes for the element type.
// The second return value is false for unknown type tags.
func (e ElementType) ValueSize() (int, bool) {
	switch e {
	case TypeEOO, TypeNull:
		return 0, true
	case TypeBool:
		return 1, true
	case TypeInt32:
		return 4, true
	case TypeDouble, TypeDateTime, TypeTimestamp, TypeInt64:
		return 8, true
	case TypeDecimal128:
		return 16, true
	default:
		return 0, false
	}
}

func (e ElementType) String() string {
	switch e {
	case TypeEOO:
		return "EOO"
	case TypeDouble:
		return "Double"
	case TypeBool:
		return "Bool"
	case TypeDateTime:
		return "DateTime"
	case TypeNull:
		return "Null"
	case TypeInt32:
		return "Int32"
	case TypeTimestamp:
		return "Timestamp"
	case TypeInt64:
		return "Int64"
	case TypeDecimal128:
		return "Decimal128"
	default:
		return "Unknown"
	}
}

func (s ContainerSubtype) String() string {
	switch s {
	case SubtypeColumn:
		return "Column"
	case SubtypeColumnSet:
		return "ColumnSet"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
