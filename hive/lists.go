package hive

import (
	"fmt"

	"github.com/joshuapare/nthive/internal/buf"
	"github.com/joshuapare/nthive/internal/format"
)

// ListKind names the on-disk subkey list variant.
type ListKind int

const (
	ListIndexLeaf ListKind = iota + 1 // li
	ListFastLeaf                      // lf
	ListHashLeaf                      // lh
	ListIndexRoot                     // ri
)

func (k ListKind) String() string {
	switch k {
	case ListIndexLeaf:
		return "li"
	case ListFastLeaf:
		return "lf"
	case ListHashLeaf:
		return "lh"
	case ListIndexRoot:
		return "ri"
	default:
		return fmt.Sprintf("ListKind(%d)", int(k))
	}
}

// SubkeysList is one decoded subkey list cell. The set of implementations is
// closed: IndexLeaf, FastLeaf, HashLeaf and IndexRoot.
//
// For the three leaf kinds Offsets returns child key node offsets. For an
// IndexRoot it returns the offsets of the leaf lists it references, which
// Hive.SubkeysListAt decodes in turn.
type SubkeysList interface {
	Kind() ListKind
	Offsets() []uint32
	Len() int

	sealed()
}

// DecodeSubkeysList dispatches on the list signature.
func DecodeSubkeysList(payload []byte) (SubkeysList, error) {
	switch {
	case format.HasSignature(payload, format.LISignature):
		return decodeIndexLeaf(payload)
	case format.HasSignature(payload, format.LFSignature):
		return decodeFastLeaf(payload)
	case format.HasSignature(payload, format.LHSignature):
		return decodeHashLeaf(payload)
	case format.HasSignature(payload, format.RISignature):
		return decodeIndexRoot(payload)
	case len(payload) < format.SignatureSize:
		return nil, corruptf("subkey list truncated (%d bytes)", len(payload))
	default:
		return nil, magicf("unknown subkey list signature %q", payload[:format.SignatureSize])
	}
}

// listCount validates the shared header and returns the element count.
func listCount(payload []byte, kind ListKind, entrySize int) (int, error) {
	if len(payload) < format.ListHeaderSize {
		return 0, corruptf("%s list header truncated (%d bytes)", kind, len(payload))
	}
	n := int(format.ReadU16(payload, format.IdxCountOffset))
	if _, err := buf.CheckListBounds(len(payload), format.IdxListOffset, n, entrySize); err != nil {
		return 0, corruptf("%s list with %d entries: %v", kind, n, err)
	}
	return n, nil
}

func readOffsets(payload []byte, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = format.ReadU32(payload, format.IdxListOffset+i*format.LIEntrySize)
	}
	return out
}

// readListCell loads and decodes the list cell at off.
func (h *Hive) readListCell(off uint32) (SubkeysList, error) {
	c, err := h.readCell(off)
	if err != nil {
		return nil, err
	}
	l, err := DecodeSubkeysList(c.Payload)
	if err != nil {
		return nil, fmt.Errorf("subkey list at 0x%x: %w", off, err)
	}
	return l, nil
}

// flattenSubkeys returns the child key offsets reachable from the list at
// off. An index root adds exactly one level of indirection; a root nested
// inside a root is corruption.
func (h *Hive) flattenSubkeys(off uint32) ([]uint32, error) {
	top, err := h.readListCell(off)
	if err != nil {
		return nil, err
	}
	switch l := top.(type) {
	case *IndexLeaf, *FastLeaf, *HashLeaf:
		return l.Offsets(), nil
	case *IndexRoot:
		var out []uint32
		for _, leafOff := range l.Lists {
			leaf, err := h.readListCell(leafOff)
			if err != nil {
				return nil, err
			}
			if _, nested := leaf.(*IndexRoot); nested {
				return nil, corruptf("index root 0x%x references another index root at 0x%x", off, leafOff)
			}
			out = append(out, leaf.Offsets()...)
		}
		return out, nil
	default:
		return nil, corruptf("unhandled subkey list kind %s", top.Kind())
	}
}

// SubkeysListAt decodes the single list cell at off without following an
// index root. Verification code uses it to inspect hints and hashes.
func (h *Hive) SubkeysListAt(off uint32) (SubkeysList, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	return h.readListCell(off)
}
