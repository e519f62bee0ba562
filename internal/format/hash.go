package format

import (
	"strings"
	"unicode/utf16"
)

// HashName computes the lh leaf hash of a key name: every UTF-16 code unit of
// the upper-cased name folded as h = h*37 + unit.
func HashName(name string) uint32 {
	var h uint32
	for _, u := range utf16.Encode([]rune(strings.ToUpper(name))) {
		h = h*37 + uint32(u)
	}
	return h
}
