// Package zipeocd decodes and encodes the ZIP End Of Central Directory
// record: the 22-byte fixed prefix plus its variable-length comment. It
// never reads the central directory itself, local file headers, ZIP64,
// or any compressed data — those are out of scope.
package zipeocd

import "encoding/binary"

const fixedSize = 22

var signature = [4]byte{'P', 'K', 0x05, 0x06}

// CharFile is the byte-oriented external collaborator this package reads
// from and writes to. It never opens, seeks, or closes anything itself;
// a caller supplies an implementation (see internal/blockio for a minimal
// reference one).
type CharFile interface {
	// Read returns exactly n bytes, or an error if that many aren't
	// available.
	Read(n int) ([]byte, error)
	// Write appends p in full.
	Write(p []byte) error
}

// Record is the decoded, logical form of an End Of Central Directory
// record. CentralDirectorySize, CentralDirectoryStart, and the comment
// are writable; the disk-spanning fields are derived and read-only
// because this package only ever produces single-disk archives.
type Record struct {
	CentralDirectorySize  uint32
	CentralDirectoryStart uint32

	totalEntries         uint16
	diskNumber           uint16
	centralDirectoryDisk uint16
	totalEntriesOnDisk   uint16
	comment              string
}

// TotalEntries returns the number of central directory entries.
func (r *Record) TotalEntries() uint16 { return r.totalEntries }

// SetTotalEntries sets the total entry count and, since this package
// never models multi-disk archives, forces the on-this-disk count to
// match it and both disk-number fields to 0.
func (r *Record) SetTotalEntries(n uint16) {
	r.totalEntries = n
	r.totalEntriesOnDisk = n
	r.diskNumber = 0
	r.centralDirectoryDisk = 0
}

// DiskNumber returns the number of this disk, as recorded in the source
// bytes a Record was decoded from. Records built fresh via &Record{} read
// as 0, matching a single-disk archive.
func (r *Record) DiskNumber() uint16 { return r.diskNumber }

// CentralDirectoryDisk returns the disk number on which the central
// directory starts.
func (r *Record) CentralDirectoryDisk() uint16 { return r.centralDirectoryDisk }

// TotalEntriesOnDisk returns the number of central directory entries on
// this disk. SetTotalEntries makes it equal to TotalEntries(); a Record
// returned by Decode reports the value stored in its source bytes.
func (r *Record) TotalEntriesOnDisk() uint16 { return r.totalEntriesOnDisk }

// Comment returns the trailing comment text.
func (r *Record) Comment() string { return r.comment }

// CommentLength returns len(r.Comment()) as the 16-bit field stores it.
func (r *Record) CommentLength() uint16 { return uint16(len(r.comment)) }

// SetComment replaces the comment, rejecting one too long for the
// 16-bit length field that precedes it on the wire.
func (r *Record) SetComment(s string) error {
	if len(s) > 0xffff {
		return ErrCommentTooLong
	}
	r.comment = s
	return nil
}

// IsSignature reports whether b begins with the EOCD signature bytes.
// Callers scanning backward through a file's trailing bytes for a
// candidate record boundary use this before attempting a full Decode.
func IsSignature(b []byte) bool {
	return len(b) >= 4 && b[0] == signature[0] && b[1] == signature[1] &&
		b[2] == signature[2] && b[3] == signature[3]
}

// Decode reads one EOCD record from cf, which must be positioned at the
// start of the signature.
func Decode(cf CharFile) (*Record, error) {
	fixed, err := cf.Read(fixedSize)
	if err != nil {
		return nil, ErrShortRead
	}
	if !IsSignature(fixed) {
		return nil, ErrBadSignature
	}

	r := &Record{
		diskNumber:            binary.LittleEndian.Uint16(fixed[4:]),
		centralDirectoryDisk:  binary.LittleEndian.Uint16(fixed[6:]),
		totalEntriesOnDisk:    binary.LittleEndian.Uint16(fixed[8:]),
		totalEntries:          binary.LittleEndian.Uint16(fixed[10:]),
		CentralDirectorySize:  binary.LittleEndian.Uint32(fixed[12:]),
		CentralDirectoryStart: binary.LittleEndian.Uint32(fixed[16:]),
	}

	commentLength := binary.LittleEndian.Uint16(fixed[20:])
	if commentLength == 0 {
		return r, nil
	}

	comment, err := cf.Read(int(commentLength))
	if err != nil {
		return nil, ErrShortRead
	}
	r.comment = string(comment)
	return r, nil
}

// Encode serializes r as the 22-byte fixed prefix followed by its
// comment.
func Encode(r *Record) []byte {
	buf := make([]byte, fixedSize+len(r.comment))
	copy(buf[0:], signature[:])
	binary.LittleEndian.PutUint16(buf[4:], r.diskNumber)
	binary.LittleEndian.PutUint16(buf[6:], r.centralDirectoryDisk)
	binary.LittleEndian.PutUint16(buf[8:], r.totalEntriesOnDisk)
	binary.LittleEndian.PutUint16(buf[10:], r.totalEntries)
	binary.LittleEndian.PutUint32(buf[12:], r.CentralDirectorySize)
	binary.LittleEndian.PutUint32(buf[16:], r.CentralDirectoryStart)
	binary.LittleEndian.PutUint16(buf[20:], uint16(len(r.comment)))
	copy(buf[fixedSize:], r.comment)
	return buf
}
