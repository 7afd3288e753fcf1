package compress

// ZstdCompressor compresses set payloads with Zstandard, the best-ratio
// codec of the built-ins. Prefer it for cold storage and network transfer
// of large packed sets.
//
// Two implementations exist behind build tags: a cgo binding to libzstd
// and a pure-Go fallback. Both produce interchangeable streams.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
