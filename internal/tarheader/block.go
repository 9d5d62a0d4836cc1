// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tarheader decodes and encodes the V7, USTAR, and GNU long-name
// extension forms of a Tar record header. It owns exactly one 512-byte
// block's worth of bytes at a time; the stream that supplies those blocks
// is an external collaborator (see BlockFile).
package tarheader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/archivehdr/headercodec/internal/checksum"
)

const (
	blockSize  = 512
	nameSize   = 100
	prefixSize = 155
)

// Block is one 512-byte Tar record on disk, in either V7, USTAR, or GNU
// long-name-extension layout. The three formats share the same field
// offsets for everything V7 defines; USTAR and GNU add fields in the
// space V7 leaves as padding.
type Block [blockSize]byte

var zeroBlock Block

// IsZero reports whether b is the all-zero block that terminates a Tar
// stream (two of these in a row mark end of archive, though this package
// only concerns itself with one block at a time).
func (b *Block) IsZero() bool { return *b == zeroBlock }

func (b *Block) name() []byte     { return b[0:][:nameSize] }
func (b *Block) mode() []byte     { return b[100:][:8] }
func (b *Block) uid() []byte      { return b[108:][:8] }
func (b *Block) gid() []byte      { return b[116:][:8] }
func (b *Block) size() []byte     { return b[124:][:12] }
func (b *Block) modTime() []byte  { return b[136:][:12] }
func (b *Block) chksum() []byte   { return b[148:][:8] }
func (b *Block) typeFlag() []byte { return b[156:][:1] }
func (b *Block) linkName() []byte { return b[157:][:nameSize] }
func (b *Block) magic() []byte    { return b[257:][:6] }
func (b *Block) version() []byte  { return b[263:][:2] }
func (b *Block) userName() []byte { return b[265:][:32] }
func (b *Block) groupName() []byte { return b[297:][:32] }
func (b *Block) devMajor() []byte { return b[329:][:8] }
func (b *Block) devMinor() []byte { return b[337:][:8] }
func (b *Block) prefix() []byte   { return b[345:][:prefixSize] }

// computeChecksum sums every byte of the block, treating the eight bytes
// of the checksum field itself as spaces.
func (b *Block) computeChecksum() int64 {
	sum := checksum.Sum(b[:148])
	sum += checksum.Sum(b[156:])
	sum += int64(' ') * 8 // the checksum field itself, masked
	return sum
}

// verifyChecksum reports whether the block's stored checksum field agrees
// with the byte sum of the rest of the block.
func (b *Block) verifyChecksum() (int64, error) {
	stored, err := parseOctal(b.chksum())
	if err != nil {
		return 0, fmt.Errorf("%w: checksum field: %v", ErrUnknownFormat, err)
	}
	computed := b.computeChecksum()
	if stored != computed {
		return computed, fmt.Errorf("%w: stored %d, computed %d", ErrChecksumMismatch, stored, computed)
	}
	return computed, nil
}

// stampChecksum writes the checksum field as six octal digits, a NUL, and
// a trailing space — the conservative form GNU tar and Info-ZIP-compatible
// tools expect on write.
func (b *Block) stampChecksum() {
	sum := b.computeChecksum()
	field := b.chksum()
	// "%06o\0 " — six octal digits, NUL, space: 8 bytes total.
	digits := strconv.FormatInt(sum, 8)
	for len(digits) < 6 {
		digits = "0" + digits
	}
	copy(field, digits)
	field[6] = 0
	field[7] = ' '
}

// parseOctal trims trailing NULs and spaces, then interprets the
// remainder as base-8. An empty field (all NUL/space) parses as zero.
func parseOctal(b []byte) (int64, error) {
	b = []byte(strings.TrimRight(string(b), " \x00"))
	if len(b) == 0 {
		return 0, nil
	}
	digits := strings.TrimLeft(string(b), "0")
	if digits == "" {
		return 0, nil
	}
	return strconv.ParseInt(digits, 8, 64)
}

// formatOctal writes v as zero-padded octal filling all of field except
// the final byte, which is always left NUL. It fails if v does not fit.
func formatOctal(field []byte, v int64) error {
	s := strconv.FormatInt(v, 8)
	width := len(field) - 1
	if len(s) > width {
		return fmt.Errorf("tarheader: value %d does not fit in %d octal digits", v, width)
	}
	for len(s) < width {
		s = "0" + s
	}
	copy(field, s)
	field[width] = 0
	return nil
}

// parseString trims the field at its first NUL (or returns it whole if
// unterminated, which some writers do for a maximally long field).
func parseString(b []byte) string {
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// formatString copies s into field, NUL-padding or NUL-terminating as
// space allows. It fails if s does not fit at all.
func formatString(field []byte, s string) error {
	if len(s) > len(field) {
		return fmt.Errorf("%w: %q needs %d bytes, field is %d", ErrPathTooLong, s, len(s), len(field))
	}
	clear(field)
	copy(field, s)
	return nil
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// BlockFile is the external block-oriented stream contract. This package
// never opens, closes, or seeks a file directly: every byte
// it reads or writes passes through this interface, which a caller
// supplies (see internal/blockio for a minimal reference implementation).
type BlockFile interface {
	// Current returns the block at the cursor without advancing it.
	Current() (Block, error)
	// Next advances the cursor by one block and returns the new current
	// block.
	Next() (Block, error)
	// Append appends a full block to the end of the stream.
	Append(Block) error
	// Name returns a diagnostic name for the underlying stream.
	Name() string
}
