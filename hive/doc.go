// Package hive reads Windows NT registry hive files (REGF format).
//
// # Overview
//
// A hive is a 4 KiB base block followed by hive bins full of cells. Every
// record (key node, value, subkey list, data) lives in a cell addressed by
// its offset relative to the end of the base block. This package decodes
// those records on demand from a seekable Store and never writes.
//
// # Opening a Hive
//
//	h, err := hive.Open("/path/to/SYSTEM", hive.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close()
//
// On Unix the file is memory-mapped; elsewhere, or with Options.StreamFile,
// cells are read through file seeks. zstd-compressed images are inflated
// into memory transparently.
//
// # Navigating
//
//	root, _ := h.Root()
//	k, err := root.Subpath(`ControlSet001\Services`)
//	kids, err := k.Subkeys()
//	for _, v := range k.Values() {
//	    name, _ := v.Name()
//	    fmt.Println(name, v.Type())
//	}
//
// # Caching
//
// Each key is decoded once and kept in an arena keyed by cell offset, so
// reaching the same cell by any route yields the same *Key. A key's children
// are read from the store on the first Subkeys call and served from memory
// afterwards. Resolved paths are additionally memoized in a bounded LRU.
//
// # Errors
//
// Every failure is a *types.Error; test the category with errors.Is against
// the sentinels in pkg/types (types.ErrCorrupt, types.ErrNotFound, ...).
package hive
