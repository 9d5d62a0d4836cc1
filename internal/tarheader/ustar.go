package tarheader

import (
	"fmt"
	"strings"
)

const ustarMagic, ustarVersion = "ustar\x00", "00"

// DecodeUSTAR extends DecodeV7 with owner names, device numbers, and the
// file-prefix split. The magic and version fields are neither read nor
// checked, so a V7 block decodes here too. ns may be nil; owner
// reconciliation only runs when both ns is supplied and the process is
// superuser.
func DecodeUSTAR(b *Block, ns NameService) (*Header, error) {
	h, err := DecodeV7(b)
	if err != nil {
		return nil, err
	}
	h.Format = FormatUSTAR

	if h.Typeflag == TypeCont {
		return nil, ErrReservedType
	}

	h.UserName = parseString(b.userName())
	h.GroupName = parseString(b.groupName())

	var firstErr error
	get := func(field []byte) int64 {
		v, perr := parseOctal(field)
		if perr != nil && firstErr == nil {
			firstErr = perr
		}
		return v
	}
	h.DevMajor = get(b.devMajor())
	h.DevMinor = get(b.devMinor())
	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, firstErr)
	}

	if prefix := parseString(b.prefix()); prefix != "" {
		h.Name = prefix + "/" + h.Name
	}

	if ns != nil && IsSuperuser() {
		if uid, ok := ns.LookupUserByName(h.UserName); ok {
			h.UID = uid
		}
		if gid, ok := ns.LookupGroupByName(h.GroupName); ok {
			h.GID = gid
		}
	}

	return h, nil
}

// EncodeUSTAR extends EncodeV7 with the USTAR magic/version, owner names,
// device numbers, and the prefix/name path split required when the
// logical path exceeds 100 bytes. Owner names are re-derived from the ids
// through ns where it resolves them, else h's own names are written; when
// ns is nil, an empty name is replaced by the literal GNU tar itself
// falls back to ("nobody"/"nogroup").
func EncodeUSTAR(h *Header, ns NameService) (*Block, error) {
	prefix, name, err := splitUSTARPath(h.Name)
	if err != nil {
		return nil, err
	}

	base := *h
	base.Name = name
	blk, err := EncodeV7(&base)
	if err != nil {
		return nil, err
	}

	if err := formatString(blk.prefix(), prefix); err != nil {
		return nil, fmt.Errorf("%w: prefix %q", ErrPathTooLong, prefix)
	}
	copy(blk.magic(), ustarMagic)
	copy(blk.version(), ustarVersion)

	userName, groupName := h.UserName, h.GroupName
	if ns != nil {
		if n, ok := ns.LookupUserByID(h.UID); ok {
			userName = n
		}
		if n, ok := ns.LookupGroupByID(h.GID); ok {
			groupName = n
		}
	} else {
		if userName == "" {
			userName = fallbackUserName
		}
		if groupName == "" {
			groupName = fallbackGroupName
		}
	}
	if err := formatString(blk.userName(), userName); err != nil {
		return nil, err
	}
	if err := formatString(blk.groupName(), groupName); err != nil {
		return nil, err
	}
	if err := formatOctal(blk.devMajor(), h.DevMajor); err != nil {
		return nil, err
	}
	if err := formatOctal(blk.devMinor(), h.DevMinor); err != nil {
		return nil, err
	}

	// Re-stamp the checksum: the prefix, magic, owner names, and device
	// fields above all landed after EncodeV7 already stamped it once.
	blk.stampChecksum()

	return blk, nil
}

// splitUSTARPath splits a logical path across the USTAR prefix/name
// fields: paths of 100 bytes or fewer need no split; longer paths split
// at the last separator, with each half checked against its field width.
func splitUSTARPath(name string) (prefix, base string, err error) {
	if len(name) <= nameSize {
		return "", name, nil
	}

	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return "", "", fmt.Errorf("%w: %q has no separator to split on", ErrPathTooLong, name)
	}
	prefix, base = name[:i], name[i+1:]
	if len(prefix) > prefixSize || len(base) > nameSize {
		return "", "", fmt.Errorf("%w: %q (prefix %d/%d, name %d/%d)",
			ErrPathTooLong, name, len(prefix), prefixSize, len(base), nameSize)
	}
	return prefix, base, nil
}
