package walker

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/pkg/types"
)

// initialStackCapacity covers typical hive depth times fan-out without
// reallocating.
const initialStackCapacity = 256

// SkipSubtree, returned by a WalkFunc, prunes the children of the key just
// visited. It is not reported as an error.
var SkipSubtree = errors.New("walker: skip subtree")

// WalkFunc is called once per key. path joins the names from (but
// excluding) the starting key with backslashes; the starting key has path ""
// and depth 0.
type WalkFunc func(path string, depth int, k *hive.Key) error

type frame struct {
	key   *hive.Key
	path  string
	depth int
}

// Walk visits root and all its descendants depth-first, in list order.
func Walk(ctx context.Context, root *hive.Key, fn WalkFunc) error {
	seen := make(map[uint32]struct{})
	stack := make([]frame, 0, initialStackCapacity)
	stack = append(stack, frame{key: root})

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, dup := seen[f.key.Offset()]; dup {
			return types.New(types.ErrKindCorrupt,
				fmt.Sprintf("key 0x%x reached twice (at %q)", f.key.Offset(), f.path), nil)
		}
		seen[f.key.Offset()] = struct{}{}

		switch err := fn(f.path, f.depth, f.key); {
		case errors.Is(err, SkipSubtree):
			continue
		case err != nil:
			return err
		}

		kids, err := f.key.Subkeys()
		if err != nil {
			return fmt.Errorf("walk %q: %w", f.path, err)
		}
		// Push in reverse so the first child is popped first.
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				key:   kids[i],
				path:  JoinPath(f.path, DisplayName(kids[i])),
				depth: f.depth + 1,
			})
		}
	}
	return nil
}

// DisplayName returns the key's name, or a placeholder carrying its offset
// when the stored name cannot be decoded.
func DisplayName(k *hive.Key) string {
	name, err := k.Name()
	if err != nil {
		return fmt.Sprintf("<invalid name @0x%x>", k.Offset())
	}
	return name
}

// JoinPath appends name to parent with the hive path separator.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + hive.PathSeparator + name
}
