package hive

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

// Hive is an opened hive image. Keys are decoded lazily and cached for the
// life of the Hive, so repeated navigation never rereads the store.
type Hive struct {
	mu     sync.Mutex
	store  *Store
	opts   Options
	log    *slog.Logger
	header format.Header
	closed bool

	nodes    map[uint32]*Key   // arena: every decoded key by cell offset
	children map[uint32][]*Key // resolved children by parent offset, written once
	paths    *lru.Cache        // "<offset>:<path>" -> *Key
}

// Stats summarizes cache occupancy and store traffic.
type Stats struct {
	Keys       int
	Parents    int
	StoreReads int64
}

// Open opens the hive file at path. The file is memory mapped unless
// opts.StreamFile is set.
func Open(path string, opts Options) (*Hive, error) {
	open := OpenMappedStore
	if opts.StreamFile {
		open = OpenFileStore
	}
	s, err := open(path)
	if err != nil {
		return nil, err
	}
	h, err := New(s, opts)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return h, nil
}

// OpenBytes opens a hive image held in memory.
func OpenBytes(data []byte, opts Options) (*Hive, error) {
	s, err := NewBytesStore(data)
	if err != nil {
		return nil, err
	}
	return New(s, opts)
}

// New reads the base block from s and returns a hive over it. The Hive owns
// s from here on and closes it in Close.
func New(s *Store, opts Options) (*Hive, error) {
	opts = opts.withDefaults()
	h := &Hive{
		store:    s,
		opts:     opts,
		log:      opts.Logger,
		nodes:    make(map[uint32]*Key),
		children: make(map[uint32][]*Key),
	}
	if opts.PathCacheSize > 0 {
		c, err := lru.New(opts.PathCacheSize)
		if err != nil {
			return nil, fmt.Errorf("path cache: %w", err)
		}
		h.paths = c
	}

	if err := s.SeekHeader(); err != nil {
		return nil, err
	}
	raw, err := s.ReadBytes(format.HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("base block: %w", err)
	}
	hdr, err := format.ParseHeader(raw)
	if err != nil {
		kind := types.ErrKindFormat
		if errors.Is(err, format.ErrSignatureMismatch) {
			kind = types.ErrKindMagic
		}
		return nil, types.New(kind, "base block", err)
	}
	h.header = hdr

	h.log.Debug("hive opened",
		"size", s.Size(),
		"version", fmt.Sprintf("%d.%d", hdr.MajorVersion, hdr.MinorVersion),
		"root", hexOff(hdr.RootCellOffset))
	if !hdr.ChecksumValid() {
		h.log.Warn("base block checksum mismatch",
			"stored", fmt.Sprintf("0x%08x", hdr.StoredChecksum),
			"computed", fmt.Sprintf("0x%08x", hdr.ComputedChecksum))
	}
	return h, nil
}

// Header returns the decoded base block. The checksum is reported, not
// enforced.
func (h *Hive) Header() format.Header { return h.header }

// Root returns the key at the root cell offset named by the base block.
func (h *Hive) Root() (*Key, error) {
	return h.KeyAt(h.header.RootCellOffset)
}

// KeyAt decodes (or returns the cached) key node at a relative cell offset.
func (h *Hive) KeyAt(off uint32) (*Key, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	return h.loadKey(off)
}

// Stats reports cache occupancy and how many reads hit the store.
func (h *Hive) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Keys: len(h.nodes), Parents: len(h.children), StoreReads: h.store.Reads()}
}

// Close releases the store and drops every cached key. Keys obtained
// earlier keep their decoded fields but can no longer navigate.
func (h *Hive) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	h.nodes = nil
	h.children = nil
	if h.paths != nil {
		h.paths.Purge()
	}
	return h.store.Close()
}

func (h *Hive) checkOpen() error {
	if h.closed {
		return types.ErrClosed
	}
	return nil
}
