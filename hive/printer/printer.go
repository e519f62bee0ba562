// Package printer renders key subtrees as Windows .reg export text.
package printer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/hive/walker"
)

const (
	// RegHeader is the first line of every export.
	RegHeader = "Windows Registry Editor Version 5.00"

	// DefaultPrefix is prepended to key paths when Options.Prefix is empty.
	DefaultPrefix = "HKEY_LOCAL_MACHINE"
)

// Options controls export output.
type Options struct {
	// Prefix is the root path written in front of every key header, e.g.
	// `HKEY_LOCAL_MACHINE\SYSTEM`. Default: DefaultPrefix.
	Prefix string

	// Path is the exported key's own path below the hive root. It is joined
	// onto Prefix; "" means the key is the hive root.
	Path string

	// MaxDepth limits recursion below the exported key (0 = unlimited).
	MaxDepth int

	// SkipValues writes key headers only.
	SkipValues bool
}

// Export writes k and its subtree to w in .reg format. Keys appear in
// pre-order, each followed by its values in on-disk order.
func Export(ctx context.Context, w io.Writer, k *hive.Key, opts Options) error {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	base := strings.TrimSuffix(prefix, `\`)
	if p := strings.Trim(opts.Path, `\`); p != "" {
		base = walker.JoinPath(base, p)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", RegHeader)

	err := walker.Walk(ctx, k, func(rel string, depth int, key *hive.Key) error {
		path := base
		if rel != "" {
			path = walker.JoinPath(base, rel)
		}
		fmt.Fprintf(bw, "[%s]\n", path)
		if !opts.SkipValues {
			for _, v := range key.Values() {
				writeValue(bw, v)
			}
		}
		bw.WriteString("\n")
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return walker.SkipSubtree
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return bw.Flush()
}
