package hive

import (
	"fmt"
	"strings"

	"github.com/joshuapare/nthive/internal/format"
	"github.com/joshuapare/nthive/pkg/types"
)

func typeMismatch(v Value, want string) error {
	return types.New(types.ErrKindValue, fmt.Sprintf("value of type %s is not %s", v.typ, want), nil)
}

// AsString decodes REG_SZ, REG_EXPAND_SZ and REG_LINK data, dropping the
// terminating NUL when present.
func (v Value) AsString() (string, error) {
	switch v.typ {
	case types.REG_SZ, types.REG_EXPAND_SZ, types.REG_LINK:
	default:
		return "", typeMismatch(v, "a string")
	}
	s, err := decodeUTF16Data(v.data)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\x00"), nil
}

// AsStrings decodes REG_MULTI_SZ data. The list ends at the first empty string.
func (v Value) AsStrings() ([]string, error) {
	if v.typ != types.REG_MULTI_SZ {
		return nil, typeMismatch(v, "a string list")
	}
	s, err := decodeUTF16Data(v.data)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, part := range strings.Split(s, "\x00") {
		if part == "" {
			break
		}
		out = append(out, part)
	}
	return out, nil
}

// AsUint32 decodes REG_DWORD and REG_DWORD_BE data.
func (v Value) AsUint32() (uint32, error) {
	if len(v.data) < 4 {
		return 0, types.New(types.ErrKindValue, fmt.Sprintf("dword needs 4 bytes, have %d", len(v.data)), nil)
	}
	switch v.typ {
	case types.REG_DWORD:
		return format.ReadU32(v.data, 0), nil
	case types.REG_DWORD_BE:
		b := v.data
		return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
	default:
		return 0, typeMismatch(v, "a dword")
	}
}

// AsUint64 decodes REG_QWORD data.
func (v Value) AsUint64() (uint64, error) {
	if v.typ != types.REG_QWORD {
		return 0, typeMismatch(v, "a qword")
	}
	if len(v.data) < 8 {
		return 0, types.New(types.ErrKindValue, fmt.Sprintf("qword needs 8 bytes, have %d", len(v.data)), nil)
	}
	return format.ReadU64(v.data, 0), nil
}

// decodeUTF16Data tolerates a trailing odd byte, which some writers leave.
func decodeUTF16Data(b []byte) (string, error) {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	s, err := format.DecodeUTF16LE(b)
	if err != nil {
		return "", types.New(types.ErrKindEncoding, "string value data", err)
	}
	return s, nil
}
