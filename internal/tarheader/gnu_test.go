package tarheader

import (
	"io"
	"strings"
	"testing"
)

// memBlockFile is a minimal in-memory BlockFile for exercising decode
// logic without any real storage collaborator.
type memBlockFile struct {
	blocks []Block
	cursor int
}

func (m *memBlockFile) Current() (Block, error) {
	if m.cursor >= len(m.blocks) {
		return Block{}, io.EOF
	}
	return m.blocks[m.cursor], nil
}

func (m *memBlockFile) Next() (Block, error) {
	m.cursor++
	return m.Current()
}

func (m *memBlockFile) Append(b Block) error {
	m.blocks = append(m.blocks, b)
	return nil
}

func (m *memBlockFile) Name() string { return "mem" }

func payloadBlocks(s string) []Block {
	n := (len(s) + blockSize - 1) / blockSize
	if n == 0 {
		n = 1
	}
	blocks := make([]Block, n)
	remaining := []byte(s)
	for i := range blocks {
		take := remaining
		if len(take) > blockSize {
			take = take[:blockSize]
		}
		copy(blocks[i][:], take)
		if len(remaining) > blockSize {
			remaining = remaining[blockSize:]
		} else {
			remaining = nil
		}
	}
	return blocks
}

func mustUSTARBlock(t *testing.T, h *Header) Block {
	t.Helper()
	blk, err := EncodeUSTAR(h, nil)
	if err != nil {
		t.Fatalf("EncodeUSTAR: %v", err)
	}
	return *blk
}

func TestDecodeGNULongName(t *testing.T) {
	longName := strings.Repeat("deeply/nested/", 10) + "file.txt"

	lHeader := &Header{Name: "././@LongLink", Typeflag: TypeGNULongName, Size: int64(len(longName)), Format: FormatUSTAR}
	term := &Header{Name: "truncated", Typeflag: TypeReg, Size: 0, Format: FormatUSTAR}

	var blocks []Block
	blocks = append(blocks, mustUSTARBlock(t, lHeader))
	blocks = append(blocks, payloadBlocks(longName)...)
	blocks = append(blocks, mustUSTARBlock(t, term))

	bf := &memBlockFile{blocks: blocks}

	h, err := DecodeGNU(bf, nil)
	if err != nil {
		t.Fatalf("DecodeGNU: %v", err)
	}
	if h.Name != longName {
		t.Errorf("Name = %q, want %q", h.Name, longName)
	}
}

func TestDecodeGNULongLink(t *testing.T) {
	longLink := strings.Repeat("../", 40) + "target"

	kHeader := &Header{Name: "././@LongLink", Typeflag: TypeGNULongLink, Size: int64(len(longLink)), Format: FormatUSTAR}
	term := &Header{Name: "symlink", LinkName: "short", Typeflag: TypeSymlink, Size: 0, Format: FormatUSTAR}

	var blocks []Block
	blocks = append(blocks, mustUSTARBlock(t, kHeader))
	blocks = append(blocks, payloadBlocks(longLink)...)
	blocks = append(blocks, mustUSTARBlock(t, term))

	bf := &memBlockFile{blocks: blocks}

	h, err := DecodeGNU(bf, nil)
	if err != nil {
		t.Fatalf("DecodeGNU: %v", err)
	}
	if h.LinkName != longLink {
		t.Errorf("LinkName = %q, want %q", h.LinkName, longLink)
	}
	if h.Name != "symlink" {
		t.Errorf("Name = %q, want unaffected %q", h.Name, "symlink")
	}
}

func TestDecodeGNUPassesThroughPlainHeader(t *testing.T) {
	h := &Header{Name: "plain.txt", Typeflag: TypeReg, Size: 0, Format: FormatUSTAR}
	bf := &memBlockFile{blocks: []Block{mustUSTARBlock(t, h)}}

	got, err := DecodeGNU(bf, nil)
	if err != nil {
		t.Fatalf("DecodeGNU: %v", err)
	}
	if got.Name != "plain.txt" {
		t.Errorf("Name = %q, want %q", got.Name, "plain.txt")
	}
}

func TestDecodeGNULongNameSpansMultipleBlocks(t *testing.T) {
	longName := strings.Repeat("x", blockSize+50)

	lHeader := &Header{Name: "././@LongLink", Typeflag: TypeGNULongName, Size: int64(len(longName)), Format: FormatUSTAR}
	term := &Header{Name: "short", Typeflag: TypeReg, Size: 0, Format: FormatUSTAR}

	var blocks []Block
	blocks = append(blocks, mustUSTARBlock(t, lHeader))
	blocks = append(blocks, payloadBlocks(longName)...)
	blocks = append(blocks, mustUSTARBlock(t, term))

	bf := &memBlockFile{blocks: blocks}

	h, err := DecodeGNU(bf, nil)
	if err != nil {
		t.Fatalf("DecodeGNU: %v", err)
	}
	if h.Name != longName {
		t.Errorf("Name length = %d, want %d", len(h.Name), len(longName))
	}
}
