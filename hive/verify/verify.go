package verify

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/hive/walker"
	"github.com/joshuapare/nthive/internal/format"
)

// ValidationError describes one problem.
type ValidationError struct {
	Type    string
	Message string
	Path    string // key path below the verified root, "" for the root or the header
	Offset  int64  // cell offset, -1 if not applicable
	Err     error  // underlying decode error, if any
}

func (e *ValidationError) Error() string {
	where := e.Type
	if e.Path != "" {
		where += " " + e.Path
	}
	if e.Offset >= 0 {
		where += fmt.Sprintf(" at 0x%X", e.Offset)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", where, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Header validates the base block fields that a reader relies on.
func Header(hdr format.Header) error {
	var result *multierror.Error
	if hdr.MajorVersion != 1 {
		result = multierror.Append(result, &ValidationError{
			Type:    "REGFHeader",
			Message: fmt.Sprintf("unexpected major version: %d (expected 1)", hdr.MajorVersion),
			Offset:  format.REGFMajorVersionOffset,
		})
	}
	if hdr.MinorVersion < 2 || hdr.MinorVersion > 6 {
		result = multierror.Append(result, &ValidationError{
			Type:    "REGFHeader",
			Message: fmt.Sprintf("unusual minor version: %d (typically 2-6)", hdr.MinorVersion),
			Offset:  format.REGFMinorVersionOffset,
		})
	}
	if hdr.PrimarySequence != hdr.SecondarySequence {
		result = multierror.Append(result, &ValidationError{
			Type: "SequenceNumbers",
			Message: fmt.Sprintf("dirty hive: primary=%d secondary=%d",
				hdr.PrimarySequence, hdr.SecondarySequence),
			Offset: format.REGFPrimarySeqOffset,
		})
	}
	if !hdr.ChecksumValid() {
		result = multierror.Append(result, &ValidationError{
			Type: "Checksum",
			Message: fmt.Sprintf("stored 0x%08X, calculated 0x%08X",
				hdr.StoredChecksum, hdr.ComputedChecksum),
			Offset: format.REGFCheckSumOffset,
		})
	}
	return result.ErrorOrNil()
}

// Tree checks every key reachable from root. Problems are collected; only
// cancellation ends the check early.
func Tree(ctx context.Context, root *hive.Key) error {
	var result *multierror.Error
	report := func(e *ValidationError) { result = multierror.Append(result, e) }

	type item struct {
		key  *hive.Key
		path string
	}
	seen := make(map[uint32]struct{})
	stack := []item{{key: root}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return multierror.Append(result, err).ErrorOrNil()
		}
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		k := it.key
		if _, dup := seen[k.Offset()]; dup {
			report(&ValidationError{Type: "Tree", Path: it.path, Offset: int64(k.Offset()),
				Message: "key reachable more than once"})
			continue
		}
		seen[k.Offset()] = struct{}{}

		checkNames(k, it.path, report)

		kids, err := k.Subkeys()
		if err != nil {
			report(&ValidationError{Type: "Subkeys", Path: it.path, Offset: int64(k.SubkeysListOffset()),
				Message: "subkey list unreadable; subtree skipped", Err: err})
			continue
		}
		if uint32(len(kids)) != k.SubkeyCount() && k.SubkeysListOffset() != format.InvalidOffset {
			report(&ValidationError{Type: "SubkeyCount", Path: it.path, Offset: int64(k.Offset()),
				Message: fmt.Sprintf("node records %d subkeys, lists hold %d", k.SubkeyCount(), len(kids))})
		}
		if len(kids) > 0 {
			checkHashes(k, it.path, kids, report)
		}
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, item{key: kids[i], path: walker.JoinPath(it.path, walker.DisplayName(kids[i]))})
		}
	}
	return result.ErrorOrNil()
}

func checkNames(k *hive.Key, path string, report func(*ValidationError)) {
	if _, err := k.Name(); err != nil {
		report(&ValidationError{Type: "KeyName", Path: path, Offset: int64(k.Offset()),
			Message: "name cannot be decoded", Err: err})
	}
	for _, v := range k.Values() {
		if _, err := v.Name(); err != nil {
			report(&ValidationError{Type: "ValueName", Path: path, Offset: int64(v.Offset()),
				Message: "value name cannot be decoded", Err: err})
		}
	}
}

// checkHashes compares every lh hash against the name of the child it
// points at. Index roots are followed one level.
func checkHashes(k *hive.Key, path string, kids []*hive.Key, report func(*ValidationError)) {
	byOffset := make(map[uint32]*hive.Key, len(kids))
	for _, c := range kids {
		byOffset[c.Offset()] = c
	}
	h := k.Hive()
	top, err := h.SubkeysListAt(k.SubkeysListOffset())
	if err != nil {
		return // already resolved once; Subkeys would have failed
	}
	leaves := []hive.SubkeysList{top}
	if ri, ok := top.(*hive.IndexRoot); ok {
		leaves = leaves[:0]
		for _, off := range ri.Lists {
			leaf, err := h.SubkeysListAt(off)
			if err != nil {
				return
			}
			leaves = append(leaves, leaf)
		}
	}
	for _, l := range leaves {
		lh, ok := l.(*hive.HashLeaf)
		if !ok {
			continue
		}
		for _, e := range lh.Entries {
			child := byOffset[e.Offset]
			if child == nil {
				continue
			}
			name, err := child.Name()
			if err != nil {
				continue
			}
			if want := hive.HashName(name); want != e.Hint {
				report(&ValidationError{Type: "HashLeaf", Path: walker.JoinPath(path, name), Offset: int64(e.Offset),
					Message: fmt.Sprintf("lh hash 0x%08X, name hashes to 0x%08X", e.Hint, want)})
			}
		}
	}
}
