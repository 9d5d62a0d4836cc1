package tarheader

import (
	"errors"
	"testing"
	"time"
)

func sampleV7Header() *Header {
	return &Header{
		Name:     "dir/file.txt",
		LinkName: "",
		Typeflag: TypeReg,
		Mode:     0644,
		UID:      501,
		GID:      20,
		Size:     1234,
		ModTime:  time.Unix(1700000000, 0),
		Format:   FormatV7,
	}
}

func TestV7EncodeDecodeRoundTrip(t *testing.T) {
	want := sampleV7Header()

	blk, err := EncodeV7(want)
	if err != nil {
		t.Fatalf("EncodeV7: %v", err)
	}

	got, err := DecodeV7(blk)
	if err != nil {
		t.Fatalf("DecodeV7: %v", err)
	}

	if got.Name != want.Name || got.LinkName != want.LinkName || got.Typeflag != want.Typeflag {
		t.Errorf("name/link/type: got %+v, want %+v", got, want)
	}
	if got.Mode != want.Mode || got.UID != want.UID || got.GID != want.GID || got.Size != want.Size {
		t.Errorf("numeric fields: got %+v, want %+v", got, want)
	}
	if !got.ModTime.Equal(want.ModTime) {
		t.Errorf("ModTime = %v, want %v", got.ModTime, want.ModTime)
	}
	if got.Format != FormatV7 {
		t.Errorf("Format = %v, want FormatV7", got.Format)
	}
}

func TestV7DecodeRejectsBadChecksum(t *testing.T) {
	blk, err := EncodeV7(sampleV7Header())
	if err != nil {
		t.Fatal(err)
	}
	blk[0] ^= 0xff

	if _, err := DecodeV7(blk); !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("DecodeV7 on corrupted block = %v, want ErrChecksumMismatch", err)
	}
}

func TestV7EncodeRejectsOverlongName(t *testing.T) {
	h := sampleV7Header()
	h.Name = string(make([]byte, nameSize+1))

	if _, err := EncodeV7(h); !errors.Is(err, ErrPathTooLong) {
		t.Fatalf("EncodeV7 with overlong name = %v, want ErrPathTooLong", err)
	}
}

func TestFromEntryDirectoryGetsTrailingSlash(t *testing.T) {
	e := &fakeEntry{path: "a/b", typ: EntryDirectory}
	h := FromEntry(e)
	if h.Name != "a/b/" {
		t.Errorf("Name = %q, want trailing slash for a directory", h.Name)
	}
}

func TestFromEntryFileHasNoTrailingSlash(t *testing.T) {
	e := &fakeEntry{path: "a/b/", typ: EntryFile}
	h := FromEntry(e)
	if h.Name != "a/b" {
		t.Errorf("Name = %q, want trailing slash stripped for a regular file", h.Name)
	}
}

type fakeEntry struct {
	path string
	link string
	typ  EntryType
}

func (e *fakeEntry) Path(bool) string             { return e.path }
func (e *fakeEntry) Permissions() int64           { return 0755 }
func (e *fakeEntry) UserID() int                  { return 0 }
func (e *fakeEntry) GroupID() int                 { return 0 }
func (e *fakeEntry) Size() int64                  { return 0 }
func (e *fakeEntry) ModificationTime() time.Time  { return time.Unix(0, 0) }
func (e *fakeEntry) Link(bool) string             { return e.link }
func (e *fakeEntry) Type() EntryType              { return e.typ }
func (e *fakeEntry) Major() int64                 { return 0 }
func (e *fakeEntry) Minor() int64                 { return 0 }
