// Package verify checks a hive for structural problems a reader can detect
// without repairing anything.
//
// # Overview
//
// Header inspects the decoded base block: version, sequence numbers and
// checksum. Tree walks a key subtree and records every problem it finds
// instead of stopping at the first one:
//   - subkey lists that cannot be resolved (the subtree below is skipped)
//   - subkey counts that disagree with the flattened lists
//   - lh entries whose hash does not match the child name
//   - key and value names that cannot be decoded
//
// # Quick Start
//
//	root, _ := h.Root()
//	if err := verify.Tree(ctx, root); err != nil {
//	    fmt.Println(err) // every problem, one per line
//	}
//
// Each reported problem is a *ValidationError; the aggregate is a
// *multierror.Error.
package verify
