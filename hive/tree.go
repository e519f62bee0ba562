package hive

import (
	"fmt"

	"github.com/joshuapare/nthive/internal/format"
)

// loadKey returns the arena instance for off, decoding it (and its values)
// on first reach.
func (h *Hive) loadKey(off uint32) (*Key, error) {
	if k, ok := h.nodes[off]; ok {
		return k, nil
	}
	c, err := h.readCell(off)
	if err != nil {
		return nil, fmt.Errorf("key node at 0x%x: %w", off, err)
	}
	k, err := decodeKey(off, c.Payload)
	if err != nil {
		return nil, err
	}
	k.hive = h
	if k.values, err = h.readValues(k); err != nil {
		return nil, err
	}
	if len(k.values) > 0 {
		h.log.Debug("value list resolved", "key", hexOff(off), "values", len(k.values))
	}
	h.nodes[off] = k
	return k, nil
}

// subkeysLocked resolves k's children once and records them in the
// children map. A key with a zero subkey count never dereferences its list
// offset, whatever garbage it holds.
func (h *Hive) subkeysLocked(k *Key) ([]*Key, error) {
	if kids, ok := h.children[k.offset]; ok {
		return kids, nil
	}
	if k.subkeyCount == 0 || k.subkeysList == format.InvalidOffset {
		if k.subkeyCount != 0 {
			h.log.Warn("subkey count mismatch",
				"key", hexOff(k.offset), "recorded", k.subkeyCount, "listed", 0)
		}
		h.children[k.offset] = []*Key{}
		return h.children[k.offset], nil
	}

	offsets, err := h.flattenSubkeys(k.subkeysList)
	if err != nil {
		return nil, fmt.Errorf("subkeys of key 0x%x: %w", k.offset, err)
	}
	kids := make([]*Key, 0, len(offsets))
	for _, off := range offsets {
		child, err := h.loadKey(off)
		if err != nil {
			return nil, fmt.Errorf("subkeys of key 0x%x: %w", k.offset, err)
		}
		kids = append(kids, child)
	}
	h.children[k.offset] = kids

	h.log.Debug("children resolved", "key", hexOff(k.offset), "count", len(kids))
	if uint32(len(kids)) != k.subkeyCount {
		h.log.Warn("subkey count mismatch",
			"key", hexOff(k.offset), "recorded", k.subkeyCount, "listed", len(kids))
	}
	return kids, nil
}

func hexOff(off uint32) string { return fmt.Sprintf("0x%x", off) }
