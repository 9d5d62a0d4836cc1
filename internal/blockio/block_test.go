package blockio

import (
	"bytes"
	"testing"

	"github.com/archivehdr/headercodec/internal/tarheader"
)

func TestBlockFileCurrentAndNext(t *testing.T) {
	var raw [blockSize * 3]byte
	for i := range raw {
		raw[i] = byte(i / blockSize)
	}
	f := NewBlockFile(bytes.NewReader(raw[:]), nil, "testfile")

	if f.Name() != "testfile" {
		t.Errorf("Name() = %q, want %q", f.Name(), "testfile")
	}

	first, err := f.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if first[0] != 0 {
		t.Errorf("first block tag = %d, want 0", first[0])
	}

	second, err := f.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second[0] != 1 {
		t.Errorf("second block tag = %d, want 1", second[0])
	}

	// Current again should not advance past the second block.
	again, err := f.Current()
	if err != nil {
		t.Fatalf("Current after Next: %v", err)
	}
	if again[0] != 1 {
		t.Errorf("repeated Current tag = %d, want 1 (no advance)", again[0])
	}
}

func TestBlockFileNextPastEndIsError(t *testing.T) {
	var raw [blockSize]byte
	f := NewBlockFile(bytes.NewReader(raw[:]), nil, "short")

	if _, err := f.Current(); err != nil {
		t.Fatalf("Current: %v", err)
	}
	if _, err := f.Next(); err == nil {
		t.Fatal("Next past the last block should return an error")
	}
}

func TestBlockFileAppend(t *testing.T) {
	var buf bytes.Buffer
	f := NewBlockFile(nil, &buf, "out")

	var b tarheader.Block
	copy(b[:], "hello")
	if err := f.Append(b); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if buf.Len() != blockSize {
		t.Errorf("Append wrote %d bytes, want %d", buf.Len(), blockSize)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("hello")) {
		t.Errorf("Append did not preserve the block's content")
	}
}
