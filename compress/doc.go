// Package compress provides the compression codecs applied to packed
// column-set payloads.
//
// Instruction streams are already dense for repetitive data, but a packed
// set concatenates many column frames and the aggregate still compresses
// well, especially literal-heavy columns. The codecs here trade off
// differently:
//
//   - Zstd: best ratio, for cold storage and network transfer
//   - S2: fastest, for hot paths where CPU dominates
//   - LZ4: balanced block compression
//   - NoOp: passthrough for pre-compressed or tiny payloads
//
// All codecs are stateless values safe for concurrent use.
package compress
