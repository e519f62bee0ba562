package walker

import (
	"context"

	"github.com/joshuapare/nthive/hive"
)

// Stats summarizes a subtree.
type Stats struct {
	Keys       uint64
	Values     uint64
	ValueBytes uint64
	MaxDepth   int

	// Keys and values whose stored names could not be decoded.
	KeyNameErrors   uint64
	ValueNameErrors uint64
}

// Count walks the subtree below root and tallies keys and values.
//
// Example:
//
//	st, err := walker.Count(ctx, root)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d keys, %d values\n", st.Keys, st.Values)
func Count(ctx context.Context, root *hive.Key) (Stats, error) {
	var st Stats
	err := Walk(ctx, root, func(_ string, depth int, k *hive.Key) error {
		st.Keys++
		st.MaxDepth = max(st.MaxDepth, depth)
		if _, err := k.Name(); err != nil {
			st.KeyNameErrors++
		}
		for _, v := range k.Values() {
			st.Values++
			st.ValueBytes += uint64(len(v.Data()))
			if _, err := v.Name(); err != nil {
				st.ValueNameErrors++
			}
		}
		return nil
	})
	return st, err
}
