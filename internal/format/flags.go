package format

import (
	"fmt"
	"strings"
)

// KeyNodeFlags is the NK flags bitset. Only KeyCompName influences parsing;
// the rest is exposed as metadata.
type KeyNodeFlags uint16

const (
	KeyIsVolatile     KeyNodeFlags = 0x0001 // volatile key, never stored on disk
	KeyHiveExit       KeyNodeFlags = 0x0002 // mount point of another hive
	KeyHiveEntry      KeyNodeFlags = 0x0004 // root key of this hive
	KeyNoDelete       KeyNodeFlags = 0x0008 // key cannot be deleted
	KeySymLink        KeyNodeFlags = 0x0010 // symbolic link, target in SymbolicLinkValue
	KeyCompName       KeyNodeFlags = 0x0020 // name stored one byte per character
	KeyPredefHandle   KeyNodeFlags = 0x0040 // predefined handle
	KeyVirtMirrored   KeyNodeFlags = 0x0080 // virtualized at least once
	KeyVirtTarget     KeyNodeFlags = 0x0100 // virtual key
	KeyVirtualStore   KeyNodeFlags = 0x0200 // part of a virtual store path
	KeyUserFlagsMask  KeyNodeFlags = 0xF000 // Wow64 user flags, opaque
	knownKeyNodeFlags              = 0x03FF | KeyUserFlagsMask
)

var keyNodeFlagNames = []struct {
	flag KeyNodeFlags
	name string
}{
	{KeyIsVolatile, "VOLATILE"},
	{KeyHiveExit, "HIVE_EXIT"},
	{KeyHiveEntry, "HIVE_ENTRY"},
	{KeyNoDelete, "NO_DELETE"},
	{KeySymLink, "SYM_LINK"},
	{KeyCompName, "COMP_NAME"},
	{KeyPredefHandle, "PREDEF_HANDLE"},
	{KeyVirtMirrored, "VIRT_MIRRORED"},
	{KeyVirtTarget, "VIRT_TARGET"},
	{KeyVirtualStore, "VIRTUAL_STORE"},
}

// ParseKeyNodeFlags validates raw against the known vocabulary. Bits 10 and 11
// have no assigned meaning and are rejected rather than silently dropped.
func ParseKeyNodeFlags(raw uint16) (KeyNodeFlags, error) {
	f := KeyNodeFlags(raw)
	if unknown := f &^ knownKeyNodeFlags; unknown != 0 {
		return f, fmt.Errorf("nk flags 0x%04x: %w (0x%04x)", raw, ErrUnknownFlags, uint16(unknown))
	}
	return f, nil
}

// Has reports whether every bit of flag is set.
func (f KeyNodeFlags) Has(flag KeyNodeFlags) bool {
	return f&flag == flag
}

// UserFlags returns the opaque 4-bit user flags nibble.
func (f KeyNodeFlags) UserFlags() uint8 {
	return uint8((f & KeyUserFlagsMask) >> 12)
}

func (f KeyNodeFlags) String() string {
	if f == 0 {
		return "0"
	}
	var parts []string
	for _, n := range keyNodeFlagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if u := f.UserFlags(); u != 0 {
		parts = append(parts, fmt.Sprintf("USER(0x%x)", u))
	}
	return strings.Join(parts, "|")
}
