package hive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/internal/mmfile"
	"github.com/joshuapare/nthive/pkg/types"
)

// zstdMagic opens every zstd frame. Hive images are sometimes archived
// compressed; they are inflated into memory on open.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Store is a positioned byte source over a hive image. Cell offsets are
// relative to the end of the base block; SeekCell applies the bias.
//
// A Store is not safe for concurrent use. Hive serializes access to it.
type Store struct {
	src    io.ReadSeeker
	closer io.Closer
	size   int64
	reads  int64
}

// NewStore wraps any seekable source. The source's size is probed once by
// seeking to its end.
func NewStore(src io.ReadSeeker) (*Store, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "probe store size", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, types.New(types.ErrKindIO, "rewind store", err)
	}
	return &Store{src: src, size: size}, nil
}

// NewBytesStore serves a hive image held in memory. Data starting with a
// zstd frame is inflated first.
func NewBytesStore(data []byte) (*Store, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		raw, err := inflate(data)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return &Store{src: bytes.NewReader(data), size: int64(len(data))}, nil
}

// OpenFileStore reads the hive through an *os.File, seeking per cell.
func OpenFileStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "open "+path, err)
	}
	var magic [4]byte
	n, err := io.ReadFull(f, magic[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, types.New(types.ErrKindIO, "read "+path, err)
	}
	if n == len(magic) && bytes.Equal(magic[:], zstdMagic) {
		defer f.Close()
		data, err := io.ReadAll(io.MultiReader(bytes.NewReader(magic[:]), f))
		if err != nil {
			return nil, types.New(types.ErrKindIO, "read "+path, err)
		}
		return NewBytesStore(data)
	}
	s, err := NewStore(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// OpenMappedStore maps the hive read-only. Compressed images are inflated
// and the mapping released immediately.
func OpenMappedStore(path string) (*Store, error) {
	m, err := mmfile.Map(path)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "map "+path, err)
	}
	if bytes.HasPrefix(m.Data, zstdMagic) {
		defer m.Close()
		return NewBytesStore(m.Data)
	}
	return &Store{src: bytes.NewReader(m.Data), size: int64(len(m.Data)), closer: m}, nil
}

func inflate(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "zstd decoder", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, types.New(types.ErrKindIO, "inflate zstd hive", err)
	}
	return out, nil
}

// Size returns the total image size in bytes, base block included.
func (s *Store) Size() int64 { return s.size }

// Reads returns how many reads have been issued against the source.
func (s *Store) Reads() int64 { return s.reads }

// Close releases the underlying file or mapping, if any.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// SeekCell positions the store at the cell with relative offset off.
func (s *Store) SeekCell(off uint32) error {
	if off == format.InvalidOffset {
		return types.New(types.ErrKindCorrupt, "seek to absent cell offset", nil)
	}
	abs := int64(format.HeaderSize) + int64(off)
	if abs >= s.size {
		return types.New(types.ErrKindIO,
			fmt.Sprintf("cell offset 0x%x beyond hive end 0x%x", off, s.size), nil)
	}
	return s.seekAbs(abs)
}

// SeekHeader positions the store at the start of the base block.
func (s *Store) SeekHeader() error { return s.seekAbs(0) }

func (s *Store) seekAbs(abs int64) error {
	if _, err := s.src.Seek(abs, io.SeekStart); err != nil {
		return types.New(types.ErrKindIO, fmt.Sprintf("seek to 0x%x", abs), err)
	}
	return nil
}

// Position returns the current absolute position.
func (s *Store) Position() (int64, error) {
	pos, err := s.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, types.New(types.ErrKindIO, "tell", err)
	}
	return pos, nil
}

// ReadBytes reads exactly n bytes at the current position.
func (s *Store) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, types.New(types.ErrKindIO, fmt.Sprintf("negative read length %d", n), nil)
	}
	b := make([]byte, n)
	s.reads++
	if _, err := io.ReadFull(s.src, b); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, types.New(types.ErrKindIO, fmt.Sprintf("read %d bytes past hive end", n), err)
		}
		return nil, types.New(types.ErrKindIO, fmt.Sprintf("read %d bytes", n), err)
	}
	return b, nil
}

// ReadAtCell seeks to off and reads n bytes.
func (s *Store) ReadAtCell(off uint32, n int) ([]byte, error) {
	if err := s.SeekCell(off); err != nil {
		return nil, err
	}
	return s.ReadBytes(n)
}

// ReadU16 reads a little-endian uint16 at the current position.
func (s *Store) ReadU16() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return format.ReadU16(b, 0), nil
}

// ReadU32 reads a little-endian uint32 at the current position.
func (s *Store) ReadU32() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return format.ReadU32(b, 0), nil
}

// ReadI32 reads a little-endian int32 at the current position.
func (s *Store) ReadI32() (int32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return format.ReadI32(b, 0), nil
}

// ReadU64 reads a little-endian uint64 at the current position.
func (s *Store) ReadU64() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return format.ReadU64(b, 0), nil
}
