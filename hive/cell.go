package hive

import (
	"fmt"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

// Cell is one allocated hive cell read off the store.
//
//	int32  size     // NEGATIVE = allocated, POSITIVE = free
//	...    payload
//
// Size counts the 4-byte header; Payload excludes it.
type Cell struct {
	Offset  uint32
	Size    int32
	Payload []byte
}

// SizeAbs returns the cell span in bytes, header included.
func (c Cell) SizeAbs() int64 {
	return -int64(c.Size)
}

// Signature returns the first two payload bytes, or nil when shorter.
func (c Cell) Signature() []byte {
	if len(c.Payload) < format.SignatureSize {
		return nil
	}
	return c.Payload[:format.SignatureSize]
}

// readCell seeks to off, validates the size prefix and reads the payload.
// Every cell a reader follows must be allocated: a free cell here means a
// dangling reference.
func (h *Hive) readCell(off uint32) (Cell, error) {
	if off == format.InvalidOffset {
		return Cell{}, types.New(types.ErrKindCorrupt, "dereference of absent cell offset", nil)
	}
	if err := h.store.SeekCell(off); err != nil {
		return Cell{}, err
	}
	size, err := h.store.ReadI32()
	if err != nil {
		return Cell{}, err
	}
	switch {
	case size == 0:
		return Cell{}, corruptf("cell 0x%x has zero size", off)
	case size > 0:
		return Cell{}, corruptf("cell 0x%x is free (size %d)", off, size)
	}
	total := -int64(size)
	if total < format.CellHeaderSize {
		return Cell{}, corruptf("cell 0x%x smaller than its header (%d)", off, total)
	}
	if total > int64(h.opts.MaxCellSize) {
		return Cell{}, corruptf("cell 0x%x size %d exceeds limit %d", off, total, h.opts.MaxCellSize)
	}
	if end := int64(format.HeaderSize) + int64(off) + total; end > h.store.Size() {
		return Cell{}, types.New(types.ErrKindIO,
			fmt.Sprintf("cell 0x%x size %d runs past hive end 0x%x", off, total, h.store.Size()), nil)
	}
	payload, err := h.store.ReadBytes(int(total) - format.CellHeaderSize)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Offset: off, Size: size, Payload: payload}, nil
}

func corruptf(msg string, args ...any) error {
	return types.New(types.ErrKindCorrupt, fmt.Sprintf(msg, args...), nil)
}

func magicf(msg string, args ...any) error {
	return types.New(types.ErrKindMagic, fmt.Sprintf(msg, args...), nil)
}
