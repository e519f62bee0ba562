package hive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/internal/testutil"
	"github.com/joshuapare/nthive/pkg/types"
)

func TestDecodeKey_Fields(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	nk := testutil.Key("Services")
	nk.Flags = uint16(format.KeyNoDelete) | 0x3000
	nk.LastWrite = format.TimeToFiletime(ts)
	nk.AccessBits = 2
	nk.Parent = 0x88
	nk.SubkeyCount = 4
	nk.SubkeysList = 0x1000
	nk.ValueCount = 0
	nk.Security = 0x2000
	nk.ClassName = 0x3000
	nk.ClassLength = 10
	nk.MaxNameLen = 40
	nk.MaxClassLen = 12
	nk.MaxValueName = 30
	nk.MaxValueData = 512

	k, err := decodeKey(0x120, nk.Bytes())
	require.NoError(t, err)

	require.Equal(t, uint32(0x120), k.Offset())
	require.Equal(t, "Services", mustName(t, k))
	require.Equal(t, ts, k.Timestamp())
	require.True(t, k.Flags().Has(format.KeyNoDelete|format.KeyCompName))
	require.Equal(t, uint8(3), k.Flags().UserFlags())
	require.Equal(t, uint32(2), k.AccessBits())
	require.Equal(t, uint32(0x88), k.ParentOffset())
	require.Equal(t, uint32(4), k.SubkeyCount())
	require.Equal(t, uint32(0x1000), k.SubkeysListOffset())
	require.Equal(t, uint32(format.InvalidOffset), k.VolatileSubkeysListOffset())
	require.Equal(t, uint32(format.InvalidOffset), k.ValuesListOffset())
	require.Equal(t, uint32(0x2000), k.SecurityOffset())
	require.Equal(t, uint32(0x3000), k.ClassNameOffset())
	require.Equal(t, uint16(10), k.ClassNameLen())
	require.Equal(t, uint32(40), k.MaxSubkeyNameLen())
	require.Equal(t, uint32(12), k.MaxSubkeyClassNameLen())
	require.Equal(t, uint32(30), k.MaxValueNameLen())
	require.Equal(t, uint32(512), k.MaxValueDataLen())
}

func TestDecodeKey_Names(t *testing.T) {
	tests := []struct {
		name string
		nk   testutil.NK
		want string
	}{
		{"compressed ascii", testutil.Key("Software"), "Software"},
		{"compressed latin-9", testutil.NK{RawName: []byte{'C', 'a', 'f', 0xE9, 0xA4}, Compressed: true}, "Café€"},
		{"utf16", testutil.NK{Name: "Ключ", Compressed: false}, "Ключ"},
		{"utf16 surrogate pair", testutil.NK{Name: "key\U0001F511", Compressed: false}, "key\U0001F511"},
		{"empty", testutil.Key(""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := decodeKey(0, tt.nk.Bytes())
			require.NoError(t, err)
			require.Equal(t, tt.want, mustName(t, k))
		})
	}
}

func TestDecodeKey_InvalidNameIsDeferred(t *testing.T) {
	for name, raw := range map[string][]byte{
		"odd length":     {0x41, 0x00, 0x42},
		"lone surrogate": {0x00, 0xD8, 0x41, 0x00},
		"trailing high":  {0x41, 0x00, 0x3D, 0xD8},
		"unpaired low":   {0x00, 0xDC},
	} {
		t.Run(name, func(t *testing.T) {
			k, err := decodeKey(0, testutil.NK{RawName: raw}.Bytes())
			require.NoError(t, err, "decode must survive a bad name")
			_, err = k.Name()
			require.ErrorIs(t, err, types.ErrEncoding)
			require.Equal(t, raw, k.NameRaw())
		})
	}
}

func TestDecodeKey_Errors(t *testing.T) {
	t.Run("wrong magic", func(t *testing.T) {
		p := testutil.Key("x").Bytes()
		copy(p, "vk")
		_, err := decodeKey(0, p)
		require.ErrorIs(t, err, types.ErrMagic)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := decodeKey(0, testutil.Key("x").Bytes()[:0x30])
		require.ErrorIs(t, err, types.ErrCorrupt)
	})
	t.Run("name overruns cell", func(t *testing.T) {
		p := testutil.Key("x").Bytes()
		format.PutU16(p, format.NKNameLenOffset, 200)
		_, err := decodeKey(0, p)
		require.ErrorIs(t, err, types.ErrCorrupt)
	})
	t.Run("unknown flag bits", func(t *testing.T) {
		nk := testutil.Key("x")
		nk.Flags = 0x0400
		_, err := decodeKey(0, nk.Bytes())
		require.ErrorIs(t, err, types.ErrFormat)
		require.ErrorIs(t, err, format.ErrUnknownFlags)
	})
}

func TestKey_ClassName(t *testing.T) {
	b := testutil.NewBuilder()
	class := format.EncodeUTF16LE("ShellClass")
	nk := testutil.Key("k")
	nk.ClassName = b.Alloc(class)
	nk.ClassLength = uint16(len(class))
	b.SetRoot(b.Alloc(nk.Bytes()))
	h := openBuilt(t, b, Options{})

	root, err := h.Root()
	require.NoError(t, err)
	got, err := root.ClassName()
	require.NoError(t, err)
	require.Equal(t, "ShellClass", got)
}

func TestKey_ClassNameAbsent(t *testing.T) {
	h, _ := openSample(t)
	root, err := h.Root()
	require.NoError(t, err)
	got, err := root.ClassName()
	require.NoError(t, err)
	require.Empty(t, got)
}
