package zipeocd

import "errors"

var (
	// ErrBadSignature is returned when the first four bytes read do not
	// match the End Of Central Directory signature.
	ErrBadSignature = errors.New("zipeocd: bad end-of-central-directory signature")

	// ErrShortRead is returned when the character file contract could not
	// supply as many bytes as the fixed-size record or comment requires.
	ErrShortRead = errors.New("zipeocd: short read")

	// ErrCommentTooLong is returned by SetComment when a comment exceeds
	// the 16-bit length field that precedes it.
	ErrCommentTooLong = errors.New("zipeocd: comment exceeds 65535 bytes")
)
