// Package blockio supplies minimal, concrete implementations of the
// block- and character-oriented file contracts that internal/tarheader
// and internal/zipeocd declare but deliberately do not implement
// themselves. Production callers are expected to bring their own —
// these exist so the codec packages have something real to decode
// against in tests and the CLI.
package blockio

import (
	"errors"
	"io"

	"github.com/archivehdr/headercodec/internal/sectionreader"
	"github.com/archivehdr/headercodec/internal/tarheader"
)

// ErrNegativeCursor is returned when a block at a negative index is
// requested. The cursor starts at 0 and Next only ever increments it, so
// no sequence of Current and Next calls produces this error.
var ErrNegativeCursor = errors.New("blockio: negative block cursor")

const blockSize = 512

// BlockFile is a tarheader.BlockFile backed by an io.ReaderAt for
// reading and an io.Writer for appending, windowed through
// internal/sectionreader so repeated reads never re-derive an
// io.ReaderAt's absolute offset math by hand.
type BlockFile struct {
	r      io.ReaderAt
	w      io.Writer
	name   string
	cursor int64
}

// NewBlockFile wraps r (for Current/Next) and w (for Append) as a
// tarheader.BlockFile named name. Either may be nil if the caller only
// reads or only writes.
func NewBlockFile(r io.ReaderAt, w io.Writer, name string) *BlockFile {
	return &BlockFile{r: r, w: w, name: name}
}

func (f *BlockFile) readBlock(index int64) (tarheader.Block, error) {
	if index < 0 {
		return tarheader.Block{}, ErrNegativeCursor
	}
	sr := sectionreader.Section(f.r, index*blockSize, blockSize)
	var b tarheader.Block
	n, err := sr.ReadAt(b[:], 0)
	if n == blockSize {
		return b, nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return tarheader.Block{}, err
}

// Current returns the block at the cursor without advancing it. The
// first call (before any Next) reads block 0.
func (f *BlockFile) Current() (tarheader.Block, error) {
	return f.readBlock(f.cursor)
}

// Next advances the cursor by one block and returns the new current
// block.
func (f *BlockFile) Next() (tarheader.Block, error) {
	f.cursor++
	return f.readBlock(f.cursor)
}

// Append writes b to the end of the stream. It does not participate in
// the Current/Next cursor at all: a BlockFile used for encoding is
// write-only, and one used for decoding never appends.
func (f *BlockFile) Append(b tarheader.Block) error {
	_, err := f.w.Write(b[:])
	return err
}

// Name returns the diagnostic name this BlockFile was constructed with.
func (f *BlockFile) Name() string { return f.name }

// Offset returns the byte offset of the block the cursor currently
// points at. Callers that need a stable key for a header's position
// (for example, a cache keyed on archive+offset) use this instead of
// reimplementing the cursor-to-byte-offset math themselves.
func (f *BlockFile) Offset() int64 { return f.cursor * blockSize }
