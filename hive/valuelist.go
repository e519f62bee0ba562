package hive

import (
	"fmt"

	"github.com/joshuapare/nthive/internal/buf"
	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

// readValues decodes the value list of a key. The list cell has no
// signature: it is count little-endian cell offsets, count taken from the
// key node.
//
//	[0..3]    uint32  offset of first vk
//	[4..7]    uint32  offset of second vk
//	...
func (h *Hive) readValues(k *Key) ([]Value, error) {
	if k.valueCount == 0 || k.valuesList == format.InvalidOffset {
		return nil, nil
	}
	list, err := h.readCell(k.valuesList)
	if err != nil {
		return nil, fmt.Errorf("value list of key 0x%x: %w", k.offset, err)
	}
	count := int(k.valueCount)
	if _, err := buf.CheckListBounds(len(list.Payload), 0, count, format.OffsetFieldSize); err != nil {
		return nil, corruptf("value list of key 0x%x with %d entries: %v", k.offset, count, err)
	}

	out := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		off := format.ReadU32(list.Payload, i*format.OffsetFieldSize)
		v, err := h.readValue(off)
		if err != nil {
			return nil, types.New(types.ErrKindValue,
				fmt.Sprintf("value %d of key 0x%x at 0x%x", i, k.offset, off), err)
		}
		out = append(out, v)
	}
	return out, nil
}
