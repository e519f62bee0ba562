// Package mmfile maps hive files read-only into memory. Platforms without
// mmap fall back to reading the whole file.
package mmfile

import "sync"

// Mapping is a read-only view of a file. Data must not be used after Close.
type Mapping struct {
	Data []byte

	once    sync.Once
	release func([]byte) error
}

// Close releases the mapping. Calling it more than once is a no-op.
func (m *Mapping) Close() error {
	if m == nil {
		return nil
	}
	var err error
	m.once.Do(func() {
		if m.release != nil && m.Data != nil {
			err = m.release(m.Data)
		}
		m.Data = nil
	})
	return err
}
