package testutil

import (
	"github.com/joshuapare/nthive/internal/format"
)

// NK describes a key node record. Zero offsets are real offsets, so use Key
// to start from a record whose optional references are all absent.
type NK struct {
	Name         string
	RawName      []byte // when set, written verbatim instead of Name
	Compressed   bool
	Flags        uint16 // ORed with COMP_NAME when Compressed is set
	LastWrite    uint64
	AccessBits   uint32
	Parent       uint32
	SubkeyCount  uint32
	SubkeysList  uint32
	VolCount     uint32
	VolList      uint32
	ValueCount   uint32
	ValuesList   uint32
	Security     uint32
	ClassName    uint32
	ClassLength  uint16
	MaxNameLen   uint32
	MaxClassLen  uint32
	MaxValueName uint32
	MaxValueData uint32
}

// Key returns an NK spec with a compressed name and no subkeys, values,
// security or class.
func Key(name string) NK {
	return NK{
		Name:        name,
		Compressed:  true,
		Parent:      format.InvalidOffset,
		SubkeysList: format.InvalidOffset,
		VolList:     format.InvalidOffset,
		ValuesList:  format.InvalidOffset,
		Security:    format.InvalidOffset,
		ClassName:   format.InvalidOffset,
	}
}

// Bytes encodes the record payload.
func (n NK) Bytes() []byte {
	name := n.RawName
	if name == nil {
		if n.Compressed {
			name = []byte(n.Name)
		} else {
			name = format.EncodeUTF16LE(n.Name)
		}
	}
	flags := n.Flags
	if n.Compressed {
		flags |= uint16(format.KeyCompName)
	}

	p := make([]byte, format.NKFixedHeaderSize+len(name))
	copy(p, format.NKSignature)
	format.PutU16(p, format.NKFlagsOffset, flags)
	format.PutU64(p, format.NKLastWriteOffset, n.LastWrite)
	format.PutU32(p, format.NKAccessBitsOffset, n.AccessBits)
	format.PutU32(p, format.NKParentOffset, n.Parent)
	format.PutU32(p, format.NKSubkeyCountOffset, n.SubkeyCount)
	format.PutU32(p, format.NKVolSubkeyCountOffset, n.VolCount)
	format.PutU32(p, format.NKSubkeyListOffset, n.SubkeysList)
	format.PutU32(p, format.NKVolSubkeyListOffset, n.VolList)
	format.PutU32(p, format.NKValueCountOffset, n.ValueCount)
	format.PutU32(p, format.NKValueListOffset, n.ValuesList)
	format.PutU32(p, format.NKSecurityOffset, n.Security)
	format.PutU32(p, format.NKClassNameOffset, n.ClassName)
	format.PutU32(p, format.NKMaxNameLenOffset, n.MaxNameLen)
	format.PutU32(p, format.NKMaxClassLenOffset, n.MaxClassLen)
	format.PutU32(p, format.NKMaxValueNameOffset, n.MaxValueName)
	format.PutU32(p, format.NKMaxValueDataOffset, n.MaxValueData)
	format.PutU16(p, format.NKNameLenOffset, uint16(len(name)))
	format.PutU16(p, format.NKClassLenOffset, n.ClassLength)
	copy(p[format.NKNameOffset:], name)
	return p
}

// Entry is one lf/lh element: a child offset and its hint or hash.
type Entry struct {
	Offset uint32
	Hint   uint32
}

// Offsets wraps bare offsets as entries with a zero hint.
func Offsets(offs ...uint32) []Entry {
	out := make([]Entry, len(offs))
	for i, o := range offs {
		out[i] = Entry{Offset: o}
	}
	return out
}

// LI encodes an index leaf.
func LI(offs ...uint32) []byte { return offsetList(format.LISignature, offs) }

// RI encodes an index root over the given list offsets.
func RI(offs ...uint32) []byte { return offsetList(format.RISignature, offs) }

// LF encodes a fast leaf.
func LF(entries ...Entry) []byte { return hintedList(format.LFSignature, entries) }

// LH encodes a hash leaf.
func LH(entries ...Entry) []byte { return hintedList(format.LHSignature, entries) }

func offsetList(sig []byte, offs []uint32) []byte {
	p := make([]byte, format.ListHeaderSize+len(offs)*format.LIEntrySize)
	copy(p, sig)
	format.PutU16(p, format.IdxCountOffset, uint16(len(offs)))
	for i, o := range offs {
		format.PutU32(p, format.IdxListOffset+i*format.LIEntrySize, o)
	}
	return p
}

func hintedList(sig []byte, entries []Entry) []byte {
	p := make([]byte, format.ListHeaderSize+len(entries)*format.LFEntrySize)
	copy(p, sig)
	format.PutU16(p, format.IdxCountOffset, uint16(len(entries)))
	for i, e := range entries {
		at := format.IdxListOffset + i*format.LFEntrySize
		format.PutU32(p, at, e.Offset)
		format.PutU32(p, at+4, e.Hint)
	}
	return p
}

// ValueList encodes a value list cell payload.
func ValueList(offs ...uint32) []byte {
	p := make([]byte, len(offs)*format.OffsetFieldSize)
	for i, o := range offs {
		format.PutU32(p, i*format.OffsetFieldSize, o)
	}
	return p
}

// VK describes a value record. DataOffset and DataLength are written as is;
// use Builder.Value to lay out data automatically.
type VK struct {
	Name       string
	RawName    []byte
	Compressed bool
	Type       uint32
	DataLength uint32
	DataOffset uint32
}

// Bytes encodes the record payload.
func (v VK) Bytes() []byte {
	name := v.RawName
	if name == nil {
		if v.Compressed {
			name = []byte(v.Name)
		} else {
			name = format.EncodeUTF16LE(v.Name)
		}
	}
	p := make([]byte, format.VKFixedHeaderSize+len(name))
	copy(p, format.VKSignature)
	format.PutU16(p, format.VKNameLenOffset, uint16(len(name)))
	format.PutU32(p, format.VKDataLenOffset, v.DataLength)
	format.PutU32(p, format.VKDataOffOffset, v.DataOffset)
	format.PutU32(p, format.VKTypeOffset, v.Type)
	if v.Compressed {
		format.PutU16(p, format.VKFlagsOffset, format.VKFlagCompressedName)
	}
	copy(p[format.VKNameOffset:], name)
	return p
}

// Value allocates a value record with a compressed name. Data up to four
// bytes is stored inline, longer data gets its own cell, and anything over
// one big-data chunk is split into a db record.
func (b *Builder) Value(name string, typ uint32, data []byte) uint32 {
	vk := VK{Name: name, Compressed: true, Type: typ, DataLength: uint32(len(data))}
	switch {
	case len(data) <= 4:
		vk.DataLength |= format.VKDataInlineBit
		var inline [4]byte
		copy(inline[:], data)
		vk.DataOffset = format.ReadU32(inline[:], 0)
	case len(data) > format.DBChunkSize:
		vk.DataOffset = b.BigData(data)
	default:
		vk.DataOffset = b.Alloc(data)
	}
	return b.Alloc(vk.Bytes())
}

// BigData splits data into DBChunkSize segments behind a db record and
// returns the db cell offset.
func (b *Builder) BigData(data []byte) uint32 {
	var segs []uint32
	for len(data) > 0 {
		n := min(len(data), format.DBChunkSize)
		segs = append(segs, b.Alloc(data[:n]))
		data = data[n:]
	}
	list := b.Alloc(ValueList(segs...))
	p := make([]byte, format.DBHeaderSize)
	copy(p, format.DBSignature)
	format.PutU16(p, format.DBCountOffset, uint16(len(segs)))
	format.PutU32(p, format.DBListOffset, list)
	return b.Alloc(p)
}
