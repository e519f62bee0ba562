package hive

import (
	"github.com/joshuapare/nthive/internal/format"
)

// --- "lf" (fast leaf): entries {Cell, NameHint[4]} ---

// HintedEntry is one lf or lh element. For lf the hint holds the first four
// name characters; for lh it holds HashName of the child name.
type HintedEntry struct {
	Offset uint32
	Hint   uint32
}

// FastLeaf is an "lf" list.
type FastLeaf struct {
	Entries []HintedEntry
}

func decodeFastLeaf(payload []byte) (*FastLeaf, error) {
	entries, err := decodeHinted(payload, ListFastLeaf)
	if err != nil {
		return nil, err
	}
	return &FastLeaf{Entries: entries}, nil
}

func decodeHinted(payload []byte, kind ListKind) ([]HintedEntry, error) {
	n, err := listCount(payload, kind, format.LFEntrySize)
	if err != nil {
		return nil, err
	}
	out := make([]HintedEntry, n)
	for i := range out {
		at := format.IdxListOffset + i*format.LFEntrySize
		out[i] = HintedEntry{
			Offset: format.ReadU32(payload, at),
			Hint:   format.ReadU32(payload, at+format.OffsetFieldSize),
		}
	}
	return out, nil
}

func hintedOffsets(entries []HintedEntry) []uint32 {
	out := make([]uint32, len(entries))
	for i, e := range entries {
		out[i] = e.Offset
	}
	return out
}

// HintBytes returns the four hint bytes of an lf entry.
func (e HintedEntry) HintBytes() [4]byte {
	var b [4]byte
	format.PutU32(b[:], 0, e.Hint)
	return b
}

func (l *FastLeaf) Kind() ListKind    { return ListFastLeaf }
func (l *FastLeaf) Offsets() []uint32 { return hintedOffsets(l.Entries) }
func (l *FastLeaf) Len() int          { return len(l.Entries) }
func (*FastLeaf) sealed()             {}
