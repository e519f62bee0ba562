package hive

import "github.com/joshuapare/nthive/internal/format"

// HashLeaf is an "lh" list. Each hint is HashName of the child's name.
type HashLeaf struct {
	Entries []HintedEntry
}

func decodeHashLeaf(payload []byte) (*HashLeaf, error) {
	entries, err := decodeHinted(payload, ListHashLeaf)
	if err != nil {
		return nil, err
	}
	return &HashLeaf{Entries: entries}, nil
}

func (l *HashLeaf) Kind() ListKind    { return ListHashLeaf }
func (l *HashLeaf) Offsets() []uint32 { return hintedOffsets(l.Entries) }
func (l *HashLeaf) Len() int          { return len(l.Entries) }
func (*HashLeaf) sealed()             {}

// HashName computes the lh hash for name.
func HashName(name string) uint32 { return format.HashName(name) }
