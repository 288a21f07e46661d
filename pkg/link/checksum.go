package link

// Sum computes the additive 16-bit checksum of b: every byte's unsigned
// value accumulated in a uint16, wrapping mod 65536. The wraparound is part
// of the contract, not an overflow bug.
//
// The sum is commutative, so it is blind to payload reordering and to any
// pair of changes that cancel out. It detects single-byte corruption only;
// treat it as detection-only, never as an integrity guarantee.
func Sum(b []byte) uint16 {
	var s uint16
	for _, c := range b {
		s += uint16(c)
	}
	return s
}
