// Package testutil assembles small synthetic hive images for tests. Records
// are appended to a single hive bin in allocation order and addressed by
// their offset relative to the end of the base block, exactly as a real hive
// addresses them.
package testutil

import (
	"github.com/joshuapare/nthive/internal/format"
)

// Builder accumulates cells inside one hive bin.
type Builder struct {
	bin  []byte
	root uint32
}

// NewBuilder returns a builder whose bin already carries its 32-byte header.
func NewBuilder() *Builder {
	bin := make([]byte, format.HBINHeaderSize)
	copy(bin, format.HBINSignature)
	return &Builder{bin: bin, root: format.InvalidOffset}
}

// Alloc appends payload as an allocated cell and returns its relative offset.
func (b *Builder) Alloc(payload []byte) uint32 {
	size := align8(len(payload) + format.CellHeaderSize)
	return b.appendCell(-int32(size), payload, size)
}

// Free appends payload as a free cell (positive size prefix).
func (b *Builder) Free(payload []byte) uint32 {
	size := align8(len(payload) + format.CellHeaderSize)
	return b.appendCell(int32(size), payload, size)
}

// RawCell appends a cell with an arbitrary size prefix, for malformed input.
// The cell occupies len(payload)+4 bytes rounded up to 8 regardless of size.
func (b *Builder) RawCell(size int32, payload []byte) uint32 {
	return b.appendCell(size, payload, align8(len(payload)+format.CellHeaderSize))
}

func (b *Builder) appendCell(prefix int32, payload []byte, span int) uint32 {
	off := uint32(len(b.bin))
	cell := make([]byte, span)
	format.PutI32(cell, 0, prefix)
	copy(cell[format.CellHeaderSize:], payload)
	b.bin = append(b.bin, cell...)
	return off
}

// SetRoot records the root cell offset written into the base block.
func (b *Builder) SetRoot(off uint32) { b.root = off }

// Bytes renders the base block followed by the bin, padded to 4 KiB.
func (b *Builder) Bytes() []byte {
	binSize := alignTo(len(b.bin), format.HeaderSize)
	out := make([]byte, format.HeaderSize+binSize)

	base := out[:format.HeaderSize]
	copy(base, format.REGFSignature)
	format.PutU32(base, format.REGFPrimarySeqOffset, 1)
	format.PutU32(base, format.REGFSecondarySeqOffset, 1)
	format.PutU32(base, format.REGFMajorVersionOffset, 1)
	format.PutU32(base, format.REGFMinorVersionOffset, 5)
	format.PutU32(base, format.REGFFormatOffset, 1)
	format.PutU32(base, format.REGFRootCellOffset, b.root)
	format.PutU32(base, format.REGFDataSizeOffset, uint32(binSize))
	format.PutU32(base, format.REGFClusterOffset, 1)
	copy(base[format.REGFFileNameOffset:], format.EncodeUTF16LE("testutil"))
	format.PutU32(base, format.REGFCheckSumOffset, format.Checksum(base))

	bin := out[format.HeaderSize:]
	copy(bin, b.bin)
	format.PutU32(bin, 4, 0)                // bin offset from the first bin
	format.PutU32(bin, 8, uint32(binSize)) // bin size
	return out
}

func align8(n int) int { return alignTo(n, format.CellAlignment) }

func alignTo(n, a int) int { return (n + a - 1) &^ (a - 1) }
