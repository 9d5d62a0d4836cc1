// Package headercache memoizes decoded Tar headers behind a two-tier
// cache: a small bounded in-memory tier and an optional durable on-disk
// tier for overflow. Keys are (archive identity, block offset) pairs,
// hashed down to a single uint64 so neither tier ever has to compare or
// hash a full 512-byte block to find a hit.
package headercache

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
	"github.com/dgryski/go-tinylfu"

	"github.com/archivehdr/headercodec/internal/tarheader"
)

// keyFor folds an archive identity and a block offset into the single
// uint64 both cache tiers use as their lookup key.
func keyFor(archive string, offset int64) uint64 {
	var h xxhash.Digest
	h.WriteString(archive)
	var off [8]byte
	binary.BigEndian.PutUint64(off[:], uint64(offset))
	h.Write(off[:])
	return h.Sum64()
}

func identityHash(k uint64) uint64 { return k }

// Entry is what the cache stores for one header position: the decoded
// header itself, plus the number of blocks that header's on-disk record
// occupies (the GNU long-name/long-link extension blocks that precede
// the final record, plus that record itself). A caller skipping a
// cached header without re-decoding it needs Blocks to advance its
// stream by the right amount.
type Entry struct {
	Header tarheader.Header
	Blocks int64
}

// Cache holds decoded headers in an in-memory admission-aware tier
// (go-tinylfu) and, optionally, a durable overflow tier (pebble). The
// durable tier is skipped entirely when dbPath is empty, which is the
// common case for a one-shot CLI invocation.
type Cache struct {
	hot  *tinylfu.T[uint64, Entry]
	cold *pebble.DB
}

// New builds a Cache whose hot tier holds capacity entries. If dbPath is
// non-empty, a pebble store is opened there as the durable overflow
// tier; Close must be called to release it.
func New(capacity int, dbPath string) (*Cache, error) {
	c := &Cache{
		hot: tinylfu.New[uint64, Entry](capacity, capacity*10, identityHash, tinylfu.OnEvict(nil)),
	}
	if dbPath != "" {
		db, err := pebble.Open(dbPath, &pebble.Options{})
		if err != nil {
			return nil, err
		}
		c.cold = db
	}
	return c, nil
}

// Close releases the durable tier, if one was opened.
func (c *Cache) Close() error {
	if c.cold == nil {
		return nil
	}
	return c.cold.Close()
}

// Get returns the cached entry for (archive, offset), checking the hot
// tier first and falling back to the durable tier. A durable-tier hit is
// promoted back into the hot tier.
func (c *Cache) Get(archive string, offset int64) (*Entry, bool) {
	key := keyFor(archive, offset)

	if e, ok := c.hot.Get(key); ok {
		return &e, true
	}

	if c.cold == nil {
		return nil, false
	}
	raw, closer, err := c.cold.Get(encodeKey(key))
	if err != nil {
		slog.Debug("headercache: durable tier miss", "archive", archive, "offset", offset, "err", err)
		return nil, false
	}
	defer closer.Close()

	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&e); err != nil {
		slog.Warn("headercache: durable tier entry unreadable", "archive", archive, "offset", offset, "err", err)
		return nil, false
	}
	c.hot.Add(key, e)
	return &e, true
}

// Put stores h, decoded from blocks on-disk blocks starting at
// (archive, offset), in the hot tier and, if present, the durable tier.
func (c *Cache) Put(archive string, offset int64, h tarheader.Header, blocks int64) {
	key := keyFor(archive, offset)
	e := Entry{Header: h, Blocks: blocks}
	c.hot.Add(key, e)

	if c.cold == nil {
		return
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		slog.Warn("headercache: failed to encode durable entry", "archive", archive, "offset", offset, "err", err)
		return
	}
	if err := c.cold.Set(encodeKey(key), buf.Bytes(), pebble.Sync); err != nil {
		slog.Warn("headercache: failed to write durable entry", "archive", archive, "offset", offset, "err", err)
	}
}

func encodeKey(k uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], k)
	return b[:]
}
