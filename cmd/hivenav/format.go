package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/hive/walker"
	"github.com/joshuapare/nthive/pkg/types"
)

// maxHexPreview bounds how many bytes of binary data are printed inline.
const maxHexPreview = 32

// valueInfo is the JSON shape of a value.
type valueInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int    `json:"size"`
	Data string `json:"data"`
}

func describeValue(v hive.Value) valueInfo {
	name, err := v.Name()
	if err != nil {
		name = fmt.Sprintf("<invalid name @0x%x>", v.Offset())
	}
	return valueInfo{
		Name: name,
		Type: v.Type().String(),
		Size: len(v.Data()),
		Data: formatData(v),
	}
}

// displayValueName renders the unnamed default value the way regedit does.
func displayValueName(name string) string {
	if name == "" {
		return "(Default)"
	}
	return name
}

// formatData renders value data for humans. Types without a text form, and
// data that fails to decode as its declared type, fall back to hex.
func formatData(v hive.Value) string {
	switch v.Type() {
	case types.REG_SZ, types.REG_EXPAND_SZ, types.REG_LINK:
		if s, err := v.AsString(); err == nil {
			return s
		}
	case types.REG_MULTI_SZ:
		if ss, err := v.AsStrings(); err == nil {
			return strings.Join(ss, ", ")
		}
	case types.REG_DWORD, types.REG_DWORD_BE:
		if n, err := v.AsUint32(); err == nil {
			return fmt.Sprintf("0x%08x (%d)", n, n)
		}
	case types.REG_QWORD:
		if n, err := v.AsUint64(); err == nil {
			return fmt.Sprintf("0x%016x (%d)", n, n)
		}
	}
	return hexPreview(v.Data())
}

func hexPreview(b []byte) string {
	if len(b) <= maxHexPreview {
		return hex.EncodeToString(b)
	}
	return fmt.Sprintf("%s... (%d bytes)", hex.EncodeToString(b[:maxHexPreview]), len(b))
}

func keyName(k *hive.Key) string { return walker.DisplayName(k) }
