// Command headercodec dumps the header records of a Tar or ZIP archive:
// every V7/USTAR/GNU Tar record, or a ZIP archive's single End Of
// Central Directory record, optionally filtered by a doublestar glob
// against the Tar entry name (for a ZIP archive, against the EOCD
// comment).
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archivehdr/headercodec/internal/blockio"
	"github.com/archivehdr/headercodec/internal/headercache"
	"github.com/archivehdr/headercodec/internal/tarheader"
	"github.com/archivehdr/headercodec/internal/zipeocd"
)

// hotCacheEntries bounds the in-memory tier of the headercache.Cache
// dumpTar consults. A one-shot CLI invocation has no durable dbPath to
// hand it: the cache only pays for itself within a single run, when the
// same archive is walked more than once (glob filtering still decodes
// every record to test it against the pattern).
const hotCacheEntries = 4096

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: headercodec <archive> [glob]")
		os.Exit(2)
	}
	path := os.Args[1]
	var glob string
	if len(os.Args) > 2 {
		glob = os.Args[2]
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Error("open archive", "path", path, "err", err)
		os.Exit(1)
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".zip"):
		err = dumpZIP(f, path, glob)
	default:
		err = dumpTar(f, path, glob)
	}
	if err != nil {
		slog.Error("dump archive", "path", path, "err", err)
		os.Exit(1)
	}
}

func dumpTar(f *os.File, path, glob string) error {
	bf := blockio.NewBlockFile(f, nil, path)

	cache, err := headercache.New(hotCacheEntries, "")
	if err != nil {
		return fmt.Errorf("open header cache: %w", err)
	}
	defer cache.Close()

	for {
		blk, err := bf.Current()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if blk.IsZero() {
			return nil
		}

		offset := bf.Offset()
		var h *tarheader.Header
		var headerBlocks int64

		if entry, ok := cache.Get(path, offset); ok {
			h = &entry.Header
			headerBlocks = entry.Blocks
			for i := int64(0); i < headerBlocks-1; i++ {
				if _, err := bf.Next(); err != nil {
					return fmt.Errorf("advance past cached header at %s: %w", path, err)
				}
			}
		} else {
			counting := &countingBlockFile{BlockFile: bf}
			h, err = tarheader.DecodeGNU(counting, nil)
			if err != nil {
				return fmt.Errorf("decode header at %s: %w", path, err)
			}
			headerBlocks = counting.nexts + 1
			cache.Put(path, offset, *h, headerBlocks)
		}

		if glob == "" || doublestar.MatchUnvalidated(glob, h.Name) {
			printTarHeader(h)
		}

		dataBlocks := (h.Size + 511) / 512
		for i := int64(0); i < dataBlocks+1; i++ {
			if _, err := bf.Next(); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					return nil
				}
				return err
			}
		}
	}
}

// countingBlockFile wraps a *blockio.BlockFile and counts the Next
// calls a decode makes through it, so the caller can learn how many
// blocks a GNU long-name/long-link extension chain consumed without
// the tarheader package itself needing to report it. The cursor it
// advances is the real one — decoding through this wrapper leaves bf
// positioned exactly where an uncached decode would.
type countingBlockFile struct {
	*blockio.BlockFile
	nexts int64
}

func (c *countingBlockFile) Next() (tarheader.Block, error) {
	c.nexts++
	return c.BlockFile.Next()
}

func printTarHeader(h *tarheader.Header) {
	fmt.Printf("%s\ttype=%c\tsize=%d\tmode=%o\tuid=%d\tgid=%d\tmtime=%s\n",
		h.Name, h.Typeflag, h.Size, h.Mode, h.UID, h.GID, h.ModTime.Format("2006-01-02T15:04:05"))
}

func dumpZIP(f *os.File, path, glob string) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()

	offset, err := locateEOCD(f, size)
	if err != nil {
		return err
	}

	cf := blockio.NewCharFileAt(f, nil, offset)
	r, err := zipeocd.Decode(cf)
	if err != nil {
		return err
	}

	if glob != "" && !doublestar.MatchUnvalidated(glob, r.Comment()) {
		return nil
	}

	fmt.Printf("entries=%d\tcentralDirSize=%d\tcentralDirStart=%d\tcomment=%q\n",
		r.TotalEntries(), r.CentralDirectorySize, r.CentralDirectoryStart, r.Comment())
	return nil
}

// locateEOCD scans backward from the end of the file for the EOCD
// signature, the way a ZIP reader must: the comment field's length is
// unknown in advance, so the signature's position isn't fixed.
func locateEOCD(r io.ReaderAt, size int64) (int64, error) {
	const maxComment = 0xffff
	const fixedSize = 22

	windowSize := int64(fixedSize + maxComment)
	if windowSize > size {
		windowSize = size
	}
	buf := make([]byte, windowSize)
	if _, err := r.ReadAt(buf, size-windowSize); err != nil && err != io.EOF {
		return 0, err
	}

	for i := len(buf) - fixedSize; i >= 0; i-- {
		if zipeocd.IsSignature(buf[i:]) {
			return size - windowSize + int64(i), nil
		}
	}
	return 0, errors.New("headercodec: no end-of-central-directory signature found")
}
