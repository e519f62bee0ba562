package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/nthive/internal/format"
)

// WriteHive writes data to a file in a per-test temporary directory and
// returns its path.
func WriteHive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-hive")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write hive: %v", err)
	}
	return path
}

// Sample is the canonical small hive used across packages:
//
//	ROOT            (UTF-16 name, lf list)
//	  Child         values Greeting=REG_SZ "hi", Count=REG_DWORD 7
//	  Other         (lh list)
//	    Leaf
//
// Offsets of every record are exposed so tests can address them directly.
type Sample struct {
	Data  []byte
	Root  uint32
	Child uint32
	Other uint32
	Leaf  uint32
}

// SampleHive builds the canonical sample.
func SampleHive() Sample {
	b := NewBuilder()

	greeting := b.Value("Greeting", 1, append(format.EncodeUTF16LE("hi"), 0, 0))
	count := b.Value("Count", 4, []byte{7, 0, 0, 0})
	values := b.Alloc(ValueList(greeting, count))

	child := Key("Child")
	child.ValueCount = 2
	child.ValuesList = values
	childOff := b.Alloc(child.Bytes())

	leafOff := b.Alloc(Key("Leaf").Bytes())
	other := Key("Other")
	other.SubkeyCount = 1
	other.SubkeysList = b.Alloc(LH(Entry{Offset: leafOff, Hint: format.HashName("Leaf")}))
	otherOff := b.Alloc(other.Bytes())

	root := Key("ROOT")
	root.Compressed = false
	root.Flags = 0x0004 | 0x0008 // HIVE_ENTRY | NO_DELETE
	root.SubkeyCount = 2
	root.SubkeysList = b.Alloc(LF(Offsets(childOff, otherOff)...))
	rootOff := b.Alloc(root.Bytes())
	b.SetRoot(rootOff)

	return Sample{Data: b.Bytes(), Root: rootOff, Child: childOff, Other: otherOff, Leaf: leafOff}
}
