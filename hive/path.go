package hive

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/joshuapare/nthive/pkg/types"
)

// PathSeparator splits path components.
const PathSeparator = `\`

// foldName maps a name to its Unicode case-folded form when matching is
// case-insensitive. Both name comparison and the path cache key use it.
func (h *Hive) foldName(s string) string {
	if !h.opts.CaseInsensitive {
		return s
	}
	return cases.Fold().String(s)
}

func (h *Hive) nameEqual(a, b string) bool {
	return a == b || h.foldName(a) == h.foldName(b)
}

func notFound(what string) error {
	return types.New(types.ErrKindNotFound, what, nil)
}

// Subkey returns the direct child named name. Children whose names cannot
// be decoded never match.
func (k *Key) Subkey(name string) (*Key, error) {
	h := k.hive
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return nil, err
	}
	return h.childLocked(k, name)
}

func (h *Hive) childLocked(k *Key, name string) (*Key, error) {
	kids, err := h.subkeysLocked(k)
	if err != nil {
		return nil, err
	}
	for _, c := range kids {
		if c.nameErr == nil && h.nameEqual(c.name, name) {
			return c, nil
		}
	}
	return nil, notFound(fmt.Sprintf("subkey %q", name))
}

// Subpath resolves a backslash-separated path below k, one component at a
// time, stopping at the first miss. An empty path resolves to nothing.
func (k *Key) Subpath(path string) (*Key, error) {
	if path == "" {
		return nil, notFound("empty path")
	}
	h := k.hive
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOpen(); err != nil {
		return nil, err
	}

	ck := h.pathKey(k, path)
	if h.paths != nil {
		if v, ok := h.paths.Get(ck); ok {
			return v.(*Key), nil
		}
	}

	cur := k
	for _, part := range strings.Split(path, PathSeparator) {
		next, err := h.childLocked(cur, part)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", path, err)
		}
		cur = next
	}
	if h.paths != nil {
		h.paths.Add(ck, cur)
	}
	return cur, nil
}

func (h *Hive) pathKey(k *Key, path string) string {
	return fmt.Sprintf("%08x:%s", k.offset, h.foldName(path))
}

// Find resolves path from the root key. A leading separator is ignored and
// an empty (or bare separator) path returns the root itself.
func (h *Hive) Find(path string) (*Key, error) {
	root, err := h.Root()
	if err != nil {
		return nil, err
	}
	path = strings.TrimPrefix(path, PathSeparator)
	if path == "" {
		return root, nil
	}
	return root.Subpath(path)
}
