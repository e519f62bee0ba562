package hive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/internal/testutil"
	"github.com/joshuapare/nthive/pkg/types"
)

func TestDecodeSubkeysList_Variants(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		kind    ListKind
		offsets []uint32
	}{
		{"li", testutil.LI(0x20, 0x40), ListIndexLeaf, []uint32{0x20, 0x40}},
		{"lf", testutil.LF(testutil.Offsets(0x60, 0x80)...), ListFastLeaf, []uint32{0x60, 0x80}},
		{"lh", testutil.LH(testutil.Offsets(0xA0)...), ListHashLeaf, []uint32{0xA0}},
		{"ri", testutil.RI(0x100, 0x200, 0x300), ListIndexRoot, []uint32{0x100, 0x200, 0x300}},
		{"empty li", testutil.LI(), ListIndexLeaf, []uint32{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := DecodeSubkeysList(tt.payload)
			require.NoError(t, err)
			require.Equal(t, tt.kind, l.Kind())
			require.Equal(t, tt.offsets, l.Offsets())
			require.Equal(t, len(tt.offsets), l.Len())
		})
	}
}

func TestDecodeSubkeysList_Hints(t *testing.T) {
	lf, err := DecodeSubkeysList(testutil.LF(testutil.Entry{Offset: 0x20, Hint: 0x64636261}))
	require.NoError(t, err)
	entry := lf.(*FastLeaf).Entries[0]
	require.Equal(t, [4]byte{'a', 'b', 'c', 'd'}, entry.HintBytes())

	lh, err := DecodeSubkeysList(testutil.LH(testutil.Entry{Offset: 0x20, Hint: HashName("Select")}))
	require.NoError(t, err)
	require.Equal(t, HashName("SELECT"), lh.(*HashLeaf).Entries[0].Hint)
}

func TestDecodeSubkeysList_Errors(t *testing.T) {
	t.Run("unknown signature", func(t *testing.T) {
		_, err := DecodeSubkeysList([]byte{'z', 'z', 0, 0})
		require.ErrorIs(t, err, types.ErrMagic)
	})
	t.Run("signature is case sensitive", func(t *testing.T) {
		_, err := DecodeSubkeysList([]byte{'l', 'F', 0, 0})
		require.ErrorIs(t, err, types.ErrMagic)
	})
	t.Run("truncated header", func(t *testing.T) {
		_, err := DecodeSubkeysList([]byte{'l', 'f', 1})
		require.ErrorIs(t, err, types.ErrCorrupt)
	})
	t.Run("count overruns cell", func(t *testing.T) {
		p := testutil.LF(testutil.Offsets(0x20)...)
		format.PutU16(p, format.IdxCountOffset, 9)
		_, err := DecodeSubkeysList(p)
		require.ErrorIs(t, err, types.ErrCorrupt)
	})
	t.Run("empty", func(t *testing.T) {
		_, err := DecodeSubkeysList(nil)
		require.ErrorIs(t, err, types.ErrCorrupt)
	})
}

func TestFlattenSubkeys_IndexRoot(t *testing.T) {
	b := testutil.NewBuilder()
	a := b.Alloc(testutil.Key("A").Bytes())
	bb := b.Alloc(testutil.Key("B").Bytes())
	c := b.Alloc(testutil.Key("C").Bytes())
	leaf1 := b.Alloc(testutil.LH(testutil.Offsets(a, bb)...))
	leaf2 := b.Alloc(testutil.LI(c))
	ri := b.Alloc(testutil.RI(leaf1, leaf2))

	root := testutil.Key("root")
	root.SubkeyCount = 3
	root.SubkeysList = ri
	b.SetRoot(b.Alloc(root.Bytes()))
	h := openBuilt(t, b, Options{})

	offs, err := h.flattenSubkeys(ri)
	require.NoError(t, err)
	require.Equal(t, []uint32{a, bb, c}, offs)

	r, err := h.Root()
	require.NoError(t, err)
	kids, err := r.Subkeys()
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C"}, names(t, kids))
}

func TestFlattenSubkeys_NestedIndexRoot(t *testing.T) {
	b := testutil.NewBuilder()
	a := b.Alloc(testutil.Key("A").Bytes())
	inner := b.Alloc(testutil.RI(b.Alloc(testutil.LI(a))))
	outer := b.Alloc(testutil.RI(inner))

	root := testutil.Key("root")
	root.SubkeyCount = 1
	root.SubkeysList = outer
	b.SetRoot(b.Alloc(root.Bytes()))
	h := openBuilt(t, b, Options{})

	r, err := h.Root()
	require.NoError(t, err)
	_, err = r.Subkeys()
	require.ErrorIs(t, err, types.ErrCorrupt)
}

func TestSubkeysListAt(t *testing.T) {
	h, s := openSample(t)
	other, err := h.KeyAt(s.Other)
	require.NoError(t, err)

	l, err := h.SubkeysListAt(other.SubkeysListOffset())
	require.NoError(t, err)
	require.Equal(t, ListHashLeaf, l.Kind())
	require.Equal(t, []uint32{s.Leaf}, l.Offsets())
	require.Equal(t, "lh", l.Kind().String())
}
