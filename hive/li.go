package hive

import (
	"github.com/joshuapare/nthive/internal/format"
)

// IndexLeaf is an "li" list: bare child offsets.
type IndexLeaf struct {
	Children []uint32
}

func decodeIndexLeaf(payload []byte) (*IndexLeaf, error) {
	n, err := listCount(payload, ListIndexLeaf, format.LIEntrySize)
	if err != nil {
		return nil, err
	}
	return &IndexLeaf{Children: readOffsets(payload, n)}, nil
}

func (l *IndexLeaf) Kind() ListKind    { return ListIndexLeaf }
func (l *IndexLeaf) Offsets() []uint32 { return l.Children }
func (l *IndexLeaf) Len() int          { return len(l.Children) }
func (*IndexLeaf) sealed()             {}
