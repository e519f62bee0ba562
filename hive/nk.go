package hive

import (
	"fmt"
	"time"

	"github.com/joshuapare/nthive/internal/buf"
	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

// Key is a decoded key node. Keys are owned by their Hive: every traversal
// that reaches the same cell offset returns the same *Key, and a key's
// children are read from the store at most once.
//
// Keys are safe for concurrent use; navigation serializes on the hive.
type Key struct {
	hive   *Hive
	offset uint32

	flags      format.KeyNodeFlags
	lastWrite  uint64
	accessBits uint32
	parent     uint32

	subkeyCount    uint32
	volSubkeyCount uint32
	subkeysList    uint32
	volSubkeysList uint32

	valueCount uint32
	valuesList uint32
	security   uint32
	className  uint32
	classLen   uint16

	maxNameLen      uint32
	maxClassLen     uint32
	maxValueNameLen uint32
	maxValueDataLen uint32
	workVar         uint32

	nameRaw []byte
	name    string
	nameErr error

	values []Value
}

// decodeKey parses an nk payload. It never touches the store; values and
// subkeys are attached by the hive.
func decodeKey(off uint32, p []byte) (*Key, error) {
	if len(p) < format.SignatureSize {
		return nil, corruptf("key node 0x%x truncated (%d bytes)", off, len(p))
	}
	if !format.HasSignature(p, format.NKSignature) {
		return nil, magicf("cell 0x%x: expected nk, found %q", off, p[:format.SignatureSize])
	}
	if len(p) < format.NKFixedHeaderSize {
		return nil, corruptf("key node 0x%x truncated (%d bytes)", off, len(p))
	}
	flags, err := format.ParseKeyNodeFlags(format.ReadU16(p, format.NKFlagsOffset))
	if err != nil {
		return nil, types.New(types.ErrKindFormat, fmt.Sprintf("key node 0x%x", off), err)
	}
	nameLen := int(format.ReadU16(p, format.NKNameLenOffset))
	raw, ok := buf.Slice(p, format.NKNameOffset, nameLen)
	if !ok {
		return nil, corruptf("key node 0x%x name length %d overruns cell (%d bytes)", off, nameLen, len(p))
	}

	k := &Key{
		offset:          off,
		flags:           flags,
		lastWrite:       format.ReadU64(p, format.NKLastWriteOffset),
		accessBits:      format.ReadU32(p, format.NKAccessBitsOffset),
		parent:          format.ReadU32(p, format.NKParentOffset),
		subkeyCount:     format.ReadU32(p, format.NKSubkeyCountOffset),
		volSubkeyCount:  format.ReadU32(p, format.NKVolSubkeyCountOffset),
		subkeysList:     format.ReadU32(p, format.NKSubkeyListOffset),
		volSubkeysList:  format.ReadU32(p, format.NKVolSubkeyListOffset),
		valueCount:      format.ReadU32(p, format.NKValueCountOffset),
		valuesList:      format.ReadU32(p, format.NKValueListOffset),
		security:        format.ReadU32(p, format.NKSecurityOffset),
		className:       format.ReadU32(p, format.NKClassNameOffset),
		maxNameLen:      format.ReadU32(p, format.NKMaxNameLenOffset),
		maxClassLen:     format.ReadU32(p, format.NKMaxClassLenOffset),
		maxValueNameLen: format.ReadU32(p, format.NKMaxValueNameOffset),
		maxValueDataLen: format.ReadU32(p, format.NKMaxValueDataOffset),
		workVar:         format.ReadU32(p, format.NKWorkVarOffset),
		classLen:        format.ReadU16(p, format.NKClassLenOffset),
		nameRaw:         append([]byte(nil), raw...),
	}
	// An undecodable name does not make the key unreachable; Name reports it.
	k.name, err = format.DecodeName(k.nameRaw, flags.Has(format.KeyCompName))
	if err != nil {
		k.nameErr = types.New(types.ErrKindEncoding, fmt.Sprintf("key node 0x%x name", off), err)
	}
	return k, nil
}

// Hive returns the hive the key was decoded from.
func (k *Key) Hive() *Hive { return k.hive }

// Offset returns the key's cell offset relative to the first hive bin.
func (k *Key) Offset() uint32 { return k.offset }

// Name returns the decoded key name, or an encoding error when the stored
// bytes are invalid.
func (k *Key) Name() (string, error) {
	if k.nameErr != nil {
		return "", k.nameErr
	}
	return k.name, nil
}

// NameRaw returns the undecoded name bytes.
func (k *Key) NameRaw() []byte { return k.nameRaw }

// Timestamp returns the last write time.
func (k *Key) Timestamp() time.Time { return format.FiletimeToTime(k.lastWrite) }

// LastWriteRaw returns the last write time as a FILETIME.
func (k *Key) LastWriteRaw() uint64 { return k.lastWrite }

// Flags returns the validated key node flags.
func (k *Key) Flags() format.KeyNodeFlags { return k.flags }

// SubkeyCount returns the stable subkey count recorded in the node.
func (k *Key) SubkeyCount() uint32 { return k.subkeyCount }

// VolatileSubkeyCount returns the volatile subkey count. Always zero in
// hives read from disk.
func (k *Key) VolatileSubkeyCount() uint32 { return k.volSubkeyCount }

// SubkeysListOffset returns the stable subkey list offset.
func (k *Key) SubkeysListOffset() uint32 { return k.subkeysList }

// VolatileSubkeysListOffset returns the volatile subkey list offset.
func (k *Key) VolatileSubkeysListOffset() uint32 { return k.volSubkeysList }

// ValueCount returns the value count recorded in the node.
func (k *Key) ValueCount() uint32 { return k.valueCount }

// ValuesListOffset returns the value list offset.
func (k *Key) ValuesListOffset() uint32 { return k.valuesList }

// ParentOffset returns the parent key offset as stored.
func (k *Key) ParentOffset() uint32 { return k.parent }

// SecurityOffset returns the security descriptor cell offset.
func (k *Key) SecurityOffset() uint32 { return k.security }

// ClassNameOffset returns the class name cell offset.
func (k *Key) ClassNameOffset() uint32 { return k.className }

// ClassNameLen returns the class name length in bytes.
func (k *Key) ClassNameLen() uint16 { return k.classLen }

// WorkVar returns the unused work variable field.
func (k *Key) WorkVar() uint32 { return k.workVar }

// AccessBits returns the access bits field.
func (k *Key) AccessBits() uint32 { return k.accessBits }

// MaxSubkeyNameLen returns the largest subkey name length hint, in bytes.
func (k *Key) MaxSubkeyNameLen() uint32 { return k.maxNameLen }

// MaxSubkeyClassNameLen returns the largest subkey class name length hint.
func (k *Key) MaxSubkeyClassNameLen() uint32 { return k.maxClassLen }

// MaxValueNameLen returns the largest value name length hint.
func (k *Key) MaxValueNameLen() uint32 { return k.maxValueNameLen }

// MaxValueDataLen returns the largest value data length hint.
func (k *Key) MaxValueDataLen() uint32 { return k.maxValueDataLen }

// Values returns the key's values in list order. The slice is shared; do
// not modify it.
func (k *Key) Values() []Value { return k.values }

// Value returns the value named name, honoring the hive's case policy.
func (k *Key) Value(name string) (Value, error) {
	for _, v := range k.values {
		if v.nameErr == nil && k.hive.nameEqual(v.name, name) {
			return v, nil
		}
	}
	return Value{}, types.New(types.ErrKindNotFound, fmt.Sprintf("value %q", name), nil)
}

// ClassName reads the key's class name. Keys without one return "".
func (k *Key) ClassName() (string, error) {
	if k.className == format.InvalidOffset || k.classLen == 0 {
		return "", nil
	}
	h := k.hive
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return "", err
	}
	c, err := h.readCell(k.className)
	if err != nil {
		return "", err
	}
	raw, ok := buf.Slice(c.Payload, 0, int(k.classLen))
	if !ok {
		return "", corruptf("class name of key 0x%x: length %d overruns cell", k.offset, k.classLen)
	}
	s, err := format.DecodeUTF16LE(raw)
	if err != nil {
		return "", types.New(types.ErrKindEncoding, fmt.Sprintf("class name of key 0x%x", k.offset), err)
	}
	return s, nil
}

// Subkeys returns the key's children in list order. The first call reads
// them from the store; later calls return the cached slice.
func (k *Key) Subkeys() ([]*Key, error) {
	h := k.hive
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	return h.subkeysLocked(k)
}
