package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/pkg/types"
)

// writeValue writes one `name=data` line. Data that does not decode as its
// declared type is written as hex(N) so nothing is lost.
func writeValue(w io.Writer, v hive.Value) {
	name := regValueName(v)
	data := v.Data()

	switch v.Type() {
	case types.REG_SZ:
		if s, err := v.AsString(); err == nil {
			fmt.Fprintf(w, "%s=\"%s\"\n", name, escapeRegString(s))
			return
		}
	case types.REG_DWORD:
		if len(data) == 4 {
			n, _ := v.AsUint32()
			fmt.Fprintf(w, "%s=dword:%08x\n", name, n)
			return
		}
	case types.REG_BINARY:
		fmt.Fprintf(w, "%s=hex:%s\n", name, formatHexBytes(data))
		return
	}
	fmt.Fprintf(w, "%s=hex(%x):%s\n", name, uint32(v.Type()), formatHexBytes(data))
}

// regValueName renders the name as it appears left of '='. The default value
// is written as @; names that fail to decode fall back to their raw bytes.
func regValueName(v hive.Value) string {
	name, err := v.Name()
	if err != nil {
		name = string(v.NameRaw())
	}
	if name == "" {
		return "@"
	}
	return `"` + escapeRegString(name) + `"`
}

// escapeRegString escapes special characters in .reg file strings.
func escapeRegString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// formatHexBytes formats bytes as comma-separated hex values.
func formatHexBytes(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data) * 3)
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
