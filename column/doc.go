// Package column implements the stateful half of the codec: decoding a
// framed column into a forward iterator, and building one with deferred
// run-length emission.
//
// A column is a length-prefixed binary frame whose body is an instruction
// stream terminated by a single zero byte. Decoding validates the framing
// eagerly and the instruction stream lazily: iteration fails at the first
// malformed instruction with the byte offset in the error.
//
// Iterators materialise delta-compressed values through a DeltaStore owned
// by the Column. Every forward traversal applies the same deltas in the
// same order, so all iterators of one Column share the store and returned
// elements stay valid for the Column's lifetime. Neither Column iteration
// nor Builder mutation is safe for concurrent use; wrap access in your own
// synchronisation if you share one across goroutines.
package column
