// Package walker drives depth-first traversals over a hive's key tree.
//
// # Overview
//
// Walk visits every key below a starting key in on-disk list order, parents
// before children, using an explicit stack rather than recursion. Each key is
// visited at most once; reaching a cell a second time means the subkey lists
// form a cycle or share children, and the walk stops with a corruption error.
//
// Count builds on Walk to summarize a subtree.
//
// # Quick Start
//
//	root, _ := h.Root()
//	err := walker.Walk(ctx, root, func(path string, depth int, k *hive.Key) error {
//	    fmt.Println(path)
//	    return nil
//	})
//
// Return SkipSubtree from the callback to prune the current key's children.
// Cancellation is checked between keys.
package walker
