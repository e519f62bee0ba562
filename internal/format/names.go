package format

import (
	"fmt"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Compressed names are stored one byte per character in an 8-bit Latin
// code page; everything else is UTF-16LE.
var (
	compressedNameEncoding = charmap.ISO8859_15
	utf16LE                = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
)

// DecodeName converts raw NK/VK name bytes to UTF-8. Errors wrap
// ErrInvalidName so callers can tolerate an unreadable name while still
// navigating the record that carries it.
func DecodeName(raw []byte, compressed bool) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if compressed {
		if isASCII(raw) {
			return string(raw), nil
		}
		out, err := compressedNameEncoding.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: latin-9: %v", ErrInvalidName, err)
		}
		return string(out), nil
	}
	return DecodeUTF16LE(raw)
}

// DecodeUTF16LE decodes UTF-16LE bytes, rejecting odd lengths and unpaired
// surrogates instead of substituting U+FFFD.
func DecodeUTF16LE(raw []byte) (string, error) {
	if len(raw)%2 != 0 {
		return "", fmt.Errorf("%w: odd utf-16 length %d", ErrInvalidName, len(raw))
	}
	if i := unpairedSurrogate(raw); i >= 0 {
		return "", fmt.Errorf("%w: unpaired surrogate at code unit %d", ErrInvalidName, i)
	}
	out, err := utf16LE.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("%w: utf-16: %v", ErrInvalidName, err)
	}
	return string(out), nil
}

// EncodeUTF16LE is the inverse of DecodeUTF16LE. Test fixtures use it to lay
// out uncompressed names.
func EncodeUTF16LE(s string) []byte {
	out, _ := utf16LE.NewEncoder().Bytes([]byte(s))
	return out
}

// unpairedSurrogate returns the index of the first code unit that is a
// surrogate without its partner, or -1.
func unpairedSurrogate(raw []byte) int {
	n := len(raw) / 2
	for i := 0; i < n; i++ {
		u := rune(ReadU16(raw, i*2))
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xDC00 || i+1 >= n {
			return i
		}
		next := rune(ReadU16(raw, (i+1)*2))
		if next < 0xDC00 || next > 0xDFFF {
			return i
		}
		i++
	}
	return -1
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
