package hive

import (
	"fmt"

	"github.com/joshuapare/nthive/internal/buf"
	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

// Value is a decoded value record with its data fully loaded.
type Value struct {
	offset     uint32
	nameRaw    []byte
	name       string
	nameErr    error
	compressed bool
	typ        types.RegType
	flags      uint16
	data       []byte
}

// Offset returns the value record's cell offset.
func (v Value) Offset() uint32 { return v.offset }

// Name returns the decoded value name. The unnamed default value has "".
func (v Value) Name() (string, error) {
	if v.nameErr != nil {
		return "", v.nameErr
	}
	return v.name, nil
}

// NameRaw returns the undecoded name bytes.
func (v Value) NameRaw() []byte { return v.nameRaw }

// NameCompressed reports whether the name is stored one byte per character.
func (v Value) NameCompressed() bool { return v.compressed }

// Type returns the registry data type.
func (v Value) Type() types.RegType { return v.typ }

// Flags returns the raw vk flags field.
func (v Value) Flags() uint16 { return v.flags }

// Data returns the value bytes. The slice is shared; do not modify it.
func (v Value) Data() []byte { return v.data }

type vkRecord struct {
	nameRaw    []byte
	compressed bool
	typ        uint32
	flags      uint16
	rawLen     uint32
	dataOff    uint32
}

func (r vkRecord) inline() bool { return r.rawLen&format.VKDataInlineBit != 0 }
func (r vkRecord) length() int  { return int(r.rawLen & format.VKDataLengthMask) }

func parseVK(off uint32, p []byte) (vkRecord, error) {
	if len(p) < format.SignatureSize {
		return vkRecord{}, corruptf("value record 0x%x truncated (%d bytes)", off, len(p))
	}
	if !format.HasSignature(p, format.VKSignature) {
		return vkRecord{}, magicf("cell 0x%x: expected vk, found %q", off, p[:format.SignatureSize])
	}
	if len(p) < format.VKFixedHeaderSize {
		return vkRecord{}, corruptf("value record 0x%x truncated (%d bytes)", off, len(p))
	}
	nameLen := int(format.ReadU16(p, format.VKNameLenOffset))
	name, ok := buf.Slice(p, format.VKNameOffset, nameLen)
	if !ok {
		return vkRecord{}, corruptf("value record 0x%x name length %d overruns cell", off, nameLen)
	}
	flags := format.ReadU16(p, format.VKFlagsOffset)
	return vkRecord{
		nameRaw:    append([]byte(nil), name...),
		compressed: flags&format.VKFlagCompressedName != 0,
		typ:        format.ReadU32(p, format.VKTypeOffset),
		flags:      flags,
		rawLen:     format.ReadU32(p, format.VKDataLenOffset),
		dataOff:    format.ReadU32(p, format.VKDataOffOffset),
	}, nil
}

// readValue loads the vk record at off together with its data.
func (h *Hive) readValue(off uint32) (Value, error) {
	c, err := h.readCell(off)
	if err != nil {
		return Value{}, err
	}
	rec, err := parseVK(off, c.Payload)
	if err != nil {
		return Value{}, err
	}
	v := Value{
		offset:     off,
		nameRaw:    rec.nameRaw,
		compressed: rec.compressed,
		typ:        types.RegType(rec.typ),
		flags:      rec.flags,
	}
	v.name, err = format.DecodeName(rec.nameRaw, rec.compressed)
	if err != nil {
		v.nameErr = types.New(types.ErrKindEncoding, fmt.Sprintf("value record 0x%x name", off), err)
	}
	v.data, err = h.readValueData(off, rec)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func (h *Hive) readValueData(off uint32, rec vkRecord) ([]byte, error) {
	n := rec.length()
	if rec.inline() {
		if n > format.OffsetFieldSize {
			return nil, corruptf("value record 0x%x: inline data length %d exceeds 4", off, n)
		}
		var b [4]byte
		format.PutU32(b[:], 0, rec.dataOff)
		out := make([]byte, n)
		copy(out, b[:n])
		return out, nil
	}
	if n == 0 {
		return []byte{}, nil
	}
	c, err := h.readCell(rec.dataOff)
	if err != nil {
		return nil, fmt.Errorf("data of value 0x%x: %w", off, err)
	}
	if n > format.DBChunkSize && format.HasSignature(c.Payload, format.DBSignature) {
		return h.readBigData(off, c.Payload, n)
	}
	if len(c.Payload) < n {
		return nil, corruptf("data of value 0x%x truncated: have %d, need %d", off, len(c.Payload), n)
	}
	return c.Payload[:n:n], nil
}

// readBigData assembles a db record: a segment list whose cells each carry
// up to DBChunkSize bytes.
func (h *Hive) readBigData(off uint32, db []byte, n int) ([]byte, error) {
	if len(db) < format.DBHeaderSize {
		return nil, corruptf("big data header of value 0x%x truncated", off)
	}
	count := int(format.ReadU16(db, format.DBCountOffset))
	listOff := format.ReadU32(db, format.DBListOffset)
	list, err := h.readCell(listOff)
	if err != nil {
		return nil, fmt.Errorf("big data segment list of value 0x%x: %w", off, err)
	}
	if _, err := buf.CheckListBounds(len(list.Payload), 0, count, format.OffsetFieldSize); err != nil {
		return nil, corruptf("big data segment list of value 0x%x: %v", off, err)
	}

	out := make([]byte, 0, n)
	for i := 0; i < count && len(out) < n; i++ {
		seg, err := h.readCell(format.ReadU32(list.Payload, i*format.OffsetFieldSize))
		if err != nil {
			return nil, fmt.Errorf("big data segment %d of value 0x%x: %w", i, off, err)
		}
		take := min(n-len(out), format.DBChunkSize, len(seg.Payload))
		out = append(out, seg.Payload[:take]...)
	}
	if len(out) < n {
		return nil, corruptf("big data of value 0x%x truncated: have %d, need %d", off, len(out), n)
	}
	return out, nil
}
