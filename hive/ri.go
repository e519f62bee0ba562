package hive

import (
	"github.com/joshuapare/nthive/internal/format"
)

// IndexRoot is an "ri" list whose entries point at leaf lists, never at
// keys and never at another index root.
type IndexRoot struct {
	Lists []uint32
}

func decodeIndexRoot(payload []byte) (*IndexRoot, error) {
	n, err := listCount(payload, ListIndexRoot, format.LIEntrySize)
	if err != nil {
		return nil, err
	}
	return &IndexRoot{Lists: readOffsets(payload, n)}, nil
}

func (l *IndexRoot) Kind() ListKind    { return ListIndexRoot }
func (l *IndexRoot) Offsets() []uint32 { return l.Lists }
func (l *IndexRoot) Len() int          { return len(l.Lists) }
func (*IndexRoot) sealed()             {}
