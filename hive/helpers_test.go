package hive

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/internal/testutil"
)

// countingReader records every Read and Seek issued by a Store.
type countingReader struct {
	r     *bytes.Reader
	reads int
	seeks int
}

func newCountingReader(data []byte) *countingReader {
	return &countingReader{r: bytes.NewReader(data)}
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return c.r.Read(p)
}

func (c *countingReader) Seek(off int64, whence int) (int64, error) {
	c.seeks++
	return c.r.Seek(off, whence)
}

var _ io.ReadSeeker = (*countingReader)(nil)

func openBuilt(t *testing.T, b *testutil.Builder, opts Options) *Hive {
	t.Helper()
	h, err := OpenBytes(b.Bytes(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func openSample(t *testing.T) (*Hive, testutil.Sample) {
	t.Helper()
	s := testutil.SampleHive()
	h, err := OpenBytes(s.Data, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h, s
}

func mustName(t *testing.T, k *Key) string {
	t.Helper()
	name, err := k.Name()
	require.NoError(t, err)
	return name
}

func names(t *testing.T, keys []*Key) []string {
	t.Helper()
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = mustName(t, k)
	}
	return out
}
