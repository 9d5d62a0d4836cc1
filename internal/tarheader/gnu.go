package tarheader

import (
	"fmt"
	"io"
)

// readPayload consumes ceil(n/512) blocks starting at bf's current block
// and returns the first n bytes of their concatenation. It then consumes
// one additional block to keep the stream aligned, so that the caller's
// next Current() call yields the next logical header.
//
// TODO: this extra alignment block has not been validated against GNU
// tar for the case fileSize % 512 == 0; leave it as-is until checked
// against a real GNU tar archive.
func readPayload(bf BlockFile, n int64) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative payload length %d", ErrUnknownFormat, n)
	}
	buf := make([]byte, 0, n)
	remaining := n
	for i := 0; remaining > 0; i++ {
		var blk Block
		var err error
		if i == 0 {
			blk, err = bf.Current()
		} else {
			blk, err = bf.Next()
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading GNU long-name payload: %v", ErrShortRead, err)
		}
		take := int64(blockSize)
		if take > remaining {
			take = remaining
		}
		buf = append(buf, blk[:take]...)
		remaining -= take
	}
	if _, err := bf.Next(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: aligning past GNU long-name payload: %v", ErrShortRead, err)
	}
	return buf, nil
}

// DecodeGNU executes the GNU long-name extension protocol: it decodes
// USTAR-shaped blocks from bf until it reaches one whose type flag is not
// 'L' or 'K', applying any pending long name/link onto that terminating
// header. ns is forwarded to each USTAR decode for owner reconciliation,
// same as DecodeUSTAR.
func DecodeGNU(bf BlockFile, ns NameService) (*Header, error) {
	var pendingName, pendingLink string

	for {
		blk, err := bf.Current()
		if err != nil {
			return nil, fmt.Errorf("%w: reading GNU header block: %v", ErrShortRead, err)
		}

		h, err := DecodeUSTAR(&blk, ns)
		if err != nil {
			return nil, err
		}

		switch h.Typeflag {
		case TypeGNULongName, TypeGNULongLink:
			// Advance onto the first payload block; readPayload takes
			// it from there and leaves the cursor on the next header.
			if _, err := bf.Next(); err != nil {
				return nil, fmt.Errorf("%w: advancing past GNU extension header: %v", ErrShortRead, err)
			}
			payload, err := readPayload(bf, h.Size)
			if err != nil {
				return nil, err
			}
			if h.Typeflag == TypeGNULongName {
				pendingName = parseString(payload)
			} else {
				pendingLink = parseString(payload)
			}
		default:
			// A digit typeflag ('0'-'9') or any other unknown byte
			// terminates the loop. The cursor is left on this header's
			// own block, same as a bare DecodeUSTAR call would leave it;
			// any data content that follows is the caller's concern.
			if pendingName != "" {
				h.Name = pendingName
			}
			if pendingLink != "" {
				h.LinkName = pendingLink
			}
			return h, nil
		}
	}
}
