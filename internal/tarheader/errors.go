package tarheader

import "errors"

// Error kinds raised by this package. Each is a distinct sentinel so
// callers can use errors.Is; wrapped errors add the offending field or
// offset with fmt.Errorf("%w: ...", ...).
var (
	// ErrChecksumMismatch is returned when a decoded header's checksum
	// field disagrees with the computed sum of the block.
	ErrChecksumMismatch = errors.New("tarheader: checksum mismatch")

	// ErrPathTooLong is returned during encode when a path cannot fit
	// within the USTAR fileName+filePrefix limits.
	ErrPathTooLong = errors.New("tarheader: path too long for USTAR encoding")

	// ErrReservedType is returned when a decoded USTAR type tag is '7'.
	ErrReservedType = errors.New("tarheader: type flag 7 is reserved")

	// ErrShortRead is returned when a block or byte source could not
	// supply the requested number of bytes.
	ErrShortRead = errors.New("tarheader: short read")

	// ErrUnknownFormat is returned when a numeric field of a block (the
	// checksum field included) is not valid octal, or when a GNU
	// extension header declares a negative payload length. A checksum
	// that parses but disagrees with the block is ErrChecksumMismatch.
	ErrUnknownFormat = errors.New("tarheader: block does not look like a tar header")
)
