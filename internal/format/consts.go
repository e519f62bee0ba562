// Package format houses the on-disk constants and primitive decoders for the
// Windows Registry hive file format. Field offsets are expressed relative to
// the start of a cell payload (just after the 4-byte size prefix) so the
// higher layers can decode a payload slice without further arithmetic.
package format

var (
	// REGFSignature is the four-byte signature at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte signature at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	// NKSignature identifies an NK (key node) cell payload.
	NKSignature = []byte{'n', 'k'}

	// VKSignature identifies a VK (value key) cell payload.
	VKSignature = []byte{'v', 'k'}

	// LISignature, LFSignature and LHSignature identify the leaf subkey
	// list variants. LF/LH entries carry a 4-byte name hint next to the
	// child offset, LI entries are bare offsets.
	LISignature = []byte{'l', 'i'}
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}

	// RISignature identifies an index root: a list of offsets to other
	// subkey lists, used once a key outgrows a single leaf.
	RISignature = []byte{'r', 'i'}

	// DBSignature identifies a big data record for values over 16 KiB.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF base block. Every relative cell
	// offset is biased by this amount.
	HeaderSize = 4096

	// HBINHeaderSize is the size of the header that opens every hive bin.
	HBINHeaderSize = 0x20

	// CellHeaderSize is the i32 size prefix preceding every cell payload.
	CellHeaderSize = 4

	// CellAlignment is the allocation granularity of cells.
	CellAlignment = 8

	// InvalidOffset marks an absent cell reference. It must never be
	// dereferenced.
	InvalidOffset = 0xFFFFFFFF

	// SignatureSize is the size of the two-byte record magic (nk, vk, lf, ...).
	SignatureSize = 2

	// OffsetFieldSize is the size of a cell offset (HCELL_INDEX).
	OffsetFieldSize = 4

	// DefaultMaxCellSize bounds a single cell read when no limit is configured.
	DefaultMaxCellSize = 64 << 20
)

// NK field offsets within the payload (payload starts with "nk").
const (
	NKSignatureOffset      = 0x00 // USHORT "nk"
	NKFlagsOffset          = 0x02 // USHORT
	NKLastWriteOffset      = 0x04 // FILETIME
	NKAccessBitsOffset     = 0x0C // ULONG
	NKParentOffset         = 0x10 // HCELL_INDEX
	NKSubkeyCountOffset    = 0x14 // ULONG stable
	NKVolSubkeyCountOffset = 0x18 // ULONG volatile
	NKSubkeyListOffset     = 0x1C // HCELL_INDEX stable
	NKVolSubkeyListOffset  = 0x20 // HCELL_INDEX volatile
	NKValueCountOffset     = 0x24 // ULONG
	NKValueListOffset      = 0x28 // HCELL_INDEX
	NKSecurityOffset       = 0x2C // HCELL_INDEX
	NKClassNameOffset      = 0x30 // HCELL_INDEX
	NKMaxNameLenOffset     = 0x34 // ULONG
	NKMaxClassLenOffset    = 0x38 // ULONG
	NKMaxValueNameOffset   = 0x3C // ULONG
	NKMaxValueDataOffset   = 0x40 // ULONG
	NKWorkVarOffset        = 0x44 // ULONG, unused on disk
	NKNameLenOffset        = 0x48 // USHORT, bytes
	NKClassLenOffset       = 0x4A // USHORT, bytes
	NKNameOffset           = 0x4C // inline name

	// NKFixedHeaderSize is the size of the NK record before the inline name.
	NKFixedHeaderSize = NKNameOffset
)

// Subkey list layout, shared by li, lf, lh and ri.
const (
	IdxSignatureOffset = 0x00
	IdxCountOffset     = 0x02
	IdxListOffset      = 0x04

	// ListHeaderSize is signature + u16 count.
	ListHeaderSize = IdxListOffset

	// LIEntrySize is a bare cell offset (li and ri).
	LIEntrySize = 4

	// LFEntrySize is a cell offset followed by a 4-byte hint (lf and lh).
	LFEntrySize = 8
)

// VK field offsets within the payload (payload starts with "vk").
const (
	VKSignatureOffset = 0x00 // USHORT "vk"
	VKNameLenOffset   = 0x02 // USHORT
	VKDataLenOffset   = 0x04 // ULONG, high bit => inline data
	VKDataOffOffset   = 0x08 // HCELL_INDEX or inline data
	VKTypeOffset      = 0x0C // ULONG
	VKFlagsOffset     = 0x10 // USHORT
	VKSpareOffset     = 0x12 // USHORT
	VKNameOffset      = 0x14 // inline name

	// VKFixedHeaderSize is the size of the VK record before the inline name.
	VKFixedHeaderSize = VKNameOffset

	// VKFlagCompressedName marks a value name stored one byte per character.
	VKFlagCompressedName = 0x0001

	// VKDataInlineBit is set in the data length when the data lives in the
	// data offset field itself (at most 4 bytes).
	VKDataInlineBit = 0x80000000

	// VKDataLengthMask extracts the real data length.
	VKDataLengthMask = 0x7FFFFFFF
)

// DB (big data) record layout.
const (
	DBCountOffset = 0x02 // USHORT number of segments
	DBListOffset  = 0x04 // HCELL_INDEX of the segment list
	DBHeaderSize  = 0x08

	// DBChunkSize is the payload carried by every segment but the last.
	DBChunkSize = 16344
)

// REGF base block field offsets.
const (
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFFormatOffset       = 0x020
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
	REGFClusterOffset      = 0x02C
	REGFFileNameOffset     = 0x030
	REGFFileNameSize       = 64
	REGFCheckSumOffset     = 0x1FC

	// REGFChecksumDwords is the number of dwords XORed into the checksum
	// (the first 508 bytes).
	REGFChecksumDwords = 127
)
