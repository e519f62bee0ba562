package format

import (
	"bytes"
	"fmt"
)

// Header captures the REGF base block fields a reader needs. The checksum is
// decoded and recomputed but never enforced here; policy belongs to callers.
//
//	Offset  Size  Description
//	0x000   4     'r' 'e' 'g' 'f'
//	0x004   4     Primary sequence number
//	0x008   4     Secondary sequence number
//	0x00C   8     Last write timestamp (FILETIME)
//	0x014   4     Major version
//	0x018   4     Minor version
//	0x01C   4     Type (0 = primary)
//	0x020   4     Format (1 = direct memory load)
//	0x024   4     Root cell offset (relative to the first hbin)
//	0x028   4     Hive bins data size
//	0x02C   4     Clustering factor
//	0x030   64    File name (UTF-16LE, partial)
//	0x1FC   4     XOR checksum of the first 508 bytes
type Header struct {
	PrimarySequence   uint32
	SecondarySequence uint32
	LastWriteRaw      uint64
	MajorVersion      uint32
	MinorVersion      uint32
	Type              uint32
	Format            uint32
	RootCellOffset    uint32
	HiveBinsDataSize  uint32
	ClusteringFactor  uint32
	FileName          string
	StoredChecksum    uint32
	ComputedChecksum  uint32
}

// ParseHeader validates the signature and extracts the base block fields.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("regf header: %w (have %d, need %d)", ErrTruncated, len(b), HeaderSize)
	}
	if !bytes.Equal(b[:len(REGFSignature)], REGFSignature) {
		return Header{}, fmt.Errorf("regf header: %w", ErrSignatureMismatch)
	}
	// The embedded file name is informational; undecodable bytes are dropped.
	name, _ := DecodeUTF16LE(trimUTF16NUL(b[REGFFileNameOffset : REGFFileNameOffset+REGFFileNameSize]))
	return Header{
		PrimarySequence:   ReadU32(b, REGFPrimarySeqOffset),
		SecondarySequence: ReadU32(b, REGFSecondarySeqOffset),
		LastWriteRaw:      ReadU64(b, REGFTimeStampOffset),
		MajorVersion:      ReadU32(b, REGFMajorVersionOffset),
		MinorVersion:      ReadU32(b, REGFMinorVersionOffset),
		Type:              ReadU32(b, REGFTypeOffset),
		Format:            ReadU32(b, REGFFormatOffset),
		RootCellOffset:    ReadU32(b, REGFRootCellOffset),
		HiveBinsDataSize:  ReadU32(b, REGFDataSizeOffset),
		ClusteringFactor:  ReadU32(b, REGFClusterOffset),
		FileName:          name,
		StoredChecksum:    ReadU32(b, REGFCheckSumOffset),
		ComputedChecksum:  Checksum(b),
	}, nil
}

// ChecksumValid reports whether the stored checksum matches the base block.
func (h Header) ChecksumValid() bool {
	return h.StoredChecksum == h.ComputedChecksum
}

// Checksum XORs the first 127 dwords of the base block. Windows maps the two
// degenerate results 0 and 0xFFFFFFFF to 1 and 0xFFFFFFFE.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < REGFChecksumDwords; i++ {
		sum ^= ReadU32(b, i*4)
	}
	switch sum {
	case 0:
		return 1
	case 0xFFFFFFFF:
		return 0xFFFFFFFE
	}
	return sum
}

func trimUTF16NUL(b []byte) []byte {
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i]
		}
	}
	return b
}
