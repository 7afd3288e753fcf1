package encoding

// maxPrefixBytes bounds the prefix of a single instruction. Ten base-128
// digits cover the full uint64 range; anything longer is malformed.
const maxPrefixBytes = 10

// PrefixLen returns the number of prefix bytes needed to carry v.
// Zero needs none: the instruction is its opcode byte alone.
func PrefixLen(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v /= 128
	}

	return n
}

// AppendPrefix appends the minimal base-128 prefix encoding of v to dst and
// returns the extended slice. Each prefix byte carries seven value bits and
// has the high bit set; the most significant digit comes first so a decoder
// can accumulate prefix = prefix*128 + (b - 128) left to right.
func AppendPrefix(dst []byte, v uint64) []byte {
	if v == 0 {
		return dst
	}

	var tmp [maxPrefixBytes]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte(v%128) | 0x80
		v /= 128
	}

	return append(dst, tmp[i:]...)
}

// ConsumePrefix accumulates prefix bytes from the start of data until it
// reaches a byte with the high bit clear (the opcode). It returns the
// accumulated prefix, the opcode byte, and the total number of bytes
// consumed including the opcode.
//
// ok is false when data runs out before an opcode byte appears or the
// prefix is overlong.
func ConsumePrefix(data []byte) (prefix uint64, opcode byte, n int, ok bool) {
	for n < len(data) {
		b := data[n]
		n++
		if b < 0x80 {
			return prefix, b, n, true
		}
		if n > maxPrefixBytes {
			return 0, 0, n, false
		}
		prefix = prefix*128 + uint64(b-0x80)
	}

	return 0, 0, n, false
}
