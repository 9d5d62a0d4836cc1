package tarheader

import (
	"fmt"
	"time"
)

// DecodeV7 parses the base 512-byte Tar record: name, mode, uid, gid,
// size, modification time, checksum, type flag, and link name. The
// checksum is verified before any other field is trusted; a mismatch is
// fatal for the block.
func DecodeV7(b *Block) (*Header, error) {
	if _, err := b.verifyChecksum(); err != nil {
		return nil, err
	}

	var h Header
	var firstErr error
	get := func(field []byte) int64 {
		v, err := parseOctal(field)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}

	h.Name = parseString(b.name())
	h.Mode = get(b.mode())
	h.UID = int(get(b.uid()))
	h.GID = int(get(b.gid()))
	h.Size = get(b.size())
	h.ModTime = time.Unix(get(b.modTime()), 0)
	h.Typeflag = b.typeFlag()[0]
	h.LinkName = parseString(b.linkName())
	h.Format = FormatV7

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, firstErr)
	}
	return &h, nil
}

// EncodeV7 lays out h as a base 512-byte record, stamping the checksum
// last. Numeric fields are zero-padded octal with the documented widths:
// mode/uid/gid get 7 digits plus NUL, size/mtime get 11 digits plus NUL.
func EncodeV7(h *Header) (*Block, error) {
	var b Block

	if err := formatString(b.name(), h.Name); err != nil {
		return nil, err
	}
	if err := formatOctal(b.mode(), h.Mode); err != nil {
		return nil, err
	}
	if err := formatOctal(b.uid(), int64(h.UID)); err != nil {
		return nil, err
	}
	if err := formatOctal(b.gid(), int64(h.GID)); err != nil {
		return nil, err
	}
	if err := formatOctal(b.size(), h.Size); err != nil {
		return nil, err
	}
	mtime := h.ModTime.Unix()
	if h.ModTime.IsZero() {
		mtime = 0 // an unset ModTime encodes as the epoch
	}
	if err := formatOctal(b.modTime(), mtime); err != nil {
		return nil, err
	}
	if err := formatString(b.linkName(), h.LinkName); err != nil {
		return nil, err
	}
	b.typeFlag()[0] = h.Typeflag

	// Checksum field starts as eight spaces while the rest of the block
	// settles.
	for i := range b.chksum() {
		b.chksum()[i] = ' '
	}
	b.stampChecksum()

	return &b, nil
}

// FromEntry builds a Header from an Entry, applying the type mapping and
// the directory trailing-slash rule.
func FromEntry(e Entry) *Header {
	h := &Header{
		Name:     e.Path(false),
		LinkName: e.Link(false),
		Mode:     e.Permissions(),
		UID:      e.UserID(),
		GID:      e.GroupID(),
		Size:     e.Size(),
		ModTime:  e.ModificationTime(),
		DevMajor: e.Major(),
		DevMinor: e.Minor(),
		Format:   FormatV7,
	}
	h.Typeflag = typeflagForEntry(e.Type())

	isDir := e.Type() == EntryDirectory
	switch {
	case isDir && len(h.Name) == 0:
		h.Name = "/"
	case isDir && h.Name[len(h.Name)-1] != '/':
		h.Name += "/"
	case !isDir && len(h.Name) > 0 && h.Name[len(h.Name)-1] == '/':
		h.Name = h.Name[:len(h.Name)-1]
	}

	return h
}
