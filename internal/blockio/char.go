package blockio

import (
	"io"

	"github.com/archivehdr/headercodec/internal/zipeocd"
)

// CharFile is a zipeocd.CharFile backed by an io.ReaderAt for reading
// and an io.Writer for writing. Each Read call advances the cursor by
// the number of bytes returned, so sequential reads walk forward through
// the record without the caller tracking an offset.
type CharFile struct {
	r      io.ReaderAt
	w      io.Writer
	cursor int64
}

// NewCharFile wraps r and w as a zipeocd.CharFile starting at offset 0.
// Either may be nil if the caller only reads or only writes.
func NewCharFile(r io.ReaderAt, w io.Writer) *CharFile {
	return &CharFile{r: r, w: w}
}

// NewCharFileAt wraps r and w as a zipeocd.CharFile starting at offset
// start — the position a caller has already located a candidate EOCD
// signature at.
func NewCharFileAt(r io.ReaderAt, w io.Writer, start int64) *CharFile {
	return &CharFile{r: r, w: w, cursor: start}
}

// Read returns exactly n bytes starting at the cursor, advancing it by
// n.
func (c *CharFile) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(&readerAtCursor{c.r, c.cursor}, buf); err != nil {
		return nil, err
	}
	c.cursor += int64(n)
	return buf, nil
}

// Write appends p in full and is otherwise independent of the read
// cursor: encoding a Record is a one-shot, sequential operation.
func (c *CharFile) Write(p []byte) error {
	_, err := c.w.Write(p)
	return err
}

type readerAtCursor struct {
	r   io.ReaderAt
	off int64
}

func (r *readerAtCursor) Read(p []byte) (int, error) {
	n, err := r.r.ReadAt(p, r.off)
	r.off += int64(n)
	return n, err
}

var _ zipeocd.CharFile = (*CharFile)(nil)
