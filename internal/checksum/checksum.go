// Package checksum computes the unsigned-byte sum used by Tar header
// integrity checks.
package checksum

// Sum returns the sum of the unsigned byte values of b.
//
// Tar's header checksum treats its own checksum field as eight spaces
// while summing; callers that need that behavior should mask the field
// themselves (see tarheader.computeChecksum) rather than have this
// function special-case any particular layout.
func Sum(b []byte) int64 {
	var sum int64
	for _, c := range b {
		sum += int64(c)
	}
	return sum
}
