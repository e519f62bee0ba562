package types

import (
	"testing"
)

func TestRegType_String(t *testing.T) {
	tests := []struct {
		regType  RegType
		expected string
	}{
		{REG_NONE, "REG_NONE"},
		{REG_SZ, "REG_SZ"},
		{REG_EXPAND_SZ, "REG_EXPAND_SZ"},
		{REG_BINARY, "REG_BINARY"},
		{REG_DWORD, "REG_DWORD"},
		{REG_DWORD_BE, "REG_DWORD_BE"},
		{REG_MULTI_SZ, "REG_MULTI_SZ"},
		{REG_QWORD, "REG_QWORD"},
		{RegType(99), "UNKNOWN_TYPE_99"},
		{RegType(0xFFFFFFFF), "UNKNOWN_TYPE_-1"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.regType.String(); got != tt.expected {
				t.Errorf("RegType(%d).String() = %q, want %q", uint32(tt.regType), got, tt.expected)
			}
		})
	}
}
