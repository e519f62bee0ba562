package hive

import (
	"errors"
	"syscall"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/internal/testutil"
	"github.com/joshuapare/nthive/pkg/types"
)

func TestStore_SeekCellAppliesBias(t *testing.T) {
	data := make([]byte, format.HeaderSize+16)
	format.PutU32(data, format.HeaderSize+8, 0xCAFEBABE)

	s, err := NewBytesStore(data)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), s.Size())

	v, err := s.ReadAtCell(8, 4)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), format.ReadU32(v, 0))

	pos, err := s.Position()
	require.NoError(t, err)
	require.Equal(t, int64(format.HeaderSize+12), pos)
}

func TestStore_TypedReads(t *testing.T) {
	data := make([]byte, format.HeaderSize+32)
	format.PutU16(data, format.HeaderSize, 0x1234)
	format.PutU32(data, format.HeaderSize+2, 0xDEADBEEF)
	format.PutI32(data, format.HeaderSize+6, -24)
	format.PutU64(data, format.HeaderSize+10, 0x0102030405060708)

	s, err := NewBytesStore(data)
	require.NoError(t, err)
	require.NoError(t, s.SeekCell(0))

	u16, err := s.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)
	u32, err := s.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)
	i32, err := s.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-24), i32)
	u64, err := s.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), u64)
	require.Equal(t, int64(4), s.Reads())
}

func TestStore_OutOfRange(t *testing.T) {
	s, err := NewBytesStore(make([]byte, format.HeaderSize+8))
	require.NoError(t, err)

	err = s.SeekCell(8)
	require.ErrorIs(t, err, types.ErrIO)

	require.NoError(t, s.SeekCell(4))
	_, err = s.ReadBytes(16)
	require.ErrorIs(t, err, types.ErrIO)
}

func TestStore_SentinelOffset(t *testing.T) {
	s, err := NewBytesStore(make([]byte, format.HeaderSize+8))
	require.NoError(t, err)
	require.ErrorIs(t, s.SeekCell(format.InvalidOffset), types.ErrCorrupt)
}

func TestStore_FailingSource(t *testing.T) {
	_, err := NewStore(failingSeeker{})
	require.ErrorIs(t, err, types.ErrIO)
}

type failingSeeker struct{}

func (failingSeeker) Read([]byte) (int, error) { return 0, errors.New("boom") }

func (failingSeeker) Seek(int64, int) (int64, error) { return 0, errors.New("boom") }

func TestStore_ZstdImage(t *testing.T) {
	sample := testutil.SampleHive()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll(sample.Data, nil)
	require.NoError(t, enc.Close())

	h, err := OpenBytes(packed, Options{})
	require.NoError(t, err)
	defer h.Close()

	root, err := h.Root()
	require.NoError(t, err)
	require.Equal(t, "ROOT", mustName(t, root))
}

func TestStore_FileBackends(t *testing.T) {
	sample := testutil.SampleHive()
	path := testutil.WriteHive(t, sample.Data)

	for _, tc := range []struct {
		name string
		opts Options
	}{
		{"mapped", Options{}},
		{"stream", Options{StreamFile: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h, err := Open(path, tc.opts)
			require.NoError(t, err)
			defer h.Close()

			k, err := h.Find(`Other\Leaf`)
			require.NoError(t, err)
			require.Equal(t, sample.Leaf, k.Offset())
		})
	}
}

func TestStore_MissingFile(t *testing.T) {
	_, err := Open(t.TempDir()+"/nope", Options{})
	require.ErrorIs(t, err, types.ErrIO)
}

func TestOpenFileStore_ReadErrors(t *testing.T) {
	// Reading a directory fails with EISDIR; that must surface at open.
	_, err := OpenFileStore(t.TempDir())
	require.ErrorIs(t, err, types.ErrIO)
	require.ErrorIs(t, err, syscall.EISDIR)

	// A file shorter than the zstd magic is a plain short image.
	short := testutil.WriteHive(t, []byte{0x28, 0xB5})
	s, err := OpenFileStore(short)
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, int64(2), s.Size())
}
