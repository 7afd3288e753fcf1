// Package encoding implements the stateless wire layer of the column codec:
// the base-128 prefix varint and the seven-operation instruction format.
//
// An instruction is zero or more prefix bytes, each with the high bit set,
// followed by exactly one opcode byte with the high bit clear. The opcode's
// high nibble selects the operation; the low nibble contributes four
// argument bits. Count-style instructions (Skip, Delta, Copy) decode their
// argument as prefix*16 + lowNibble. Set-delta instructions factor their
// argument as (prefix+1) << (lowNibble*4), shifting out trailing zero
// nibbles so that deltas between nearby floating-point values fit in one or
// two bytes.
//
// Literal instructions are special: the opcode byte is the first byte of an
// embedded element, so the element body follows the opcode directly and no
// prefix applies.
//
// Everything in this package is pure; the stateful decoding and building
// live in the column package.
package encoding
