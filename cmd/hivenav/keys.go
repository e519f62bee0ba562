package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/hive/walker"
)

var (
	keysRecursive bool
	keysDepth     int
)

func init() {
	rootCmd.AddCommand(newKeysCmd())
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys <hive> [path]",
		Short: "List subkeys of a key",
		Long: `The keys command lists the subkeys of the key at path (the root when
omitted). Path components are separated by backslashes.

Example:
  hivenav keys system.hive
  hivenav keys system.hive 'ControlSet001\Services' --recursive --depth 2`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVarP(&keysRecursive, "recursive", "r", false, "List the whole subtree")
	cmd.Flags().IntVarP(&keysDepth, "depth", "d", 0, "Maximum depth when recursive (0 = unlimited)")
	return cmd
}

type keyEntry struct {
	Path     string `json:"path"`
	Subkeys  uint32 `json:"subkeys"`
	Values   uint32 `json:"values"`
	Modified string `json:"modified"`
}

func describeKey(path string, k *hive.Key) keyEntry {
	return keyEntry{
		Path:     path,
		Subkeys:  k.SubkeyCount(),
		Values:   k.ValueCount(),
		Modified: k.Timestamp().Format("2006-01-02 15:04:05"),
	}
}

func runKeys(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	keyPath := ""
	if len(args) > 1 {
		keyPath = args[1]
	}

	h, k, err := openKey(args[0], keyPath)
	if err != nil {
		return err
	}
	defer h.Close()

	var entries []keyEntry
	if keysRecursive {
		err = walker.Walk(ctx, k, func(path string, depth int, sub *hive.Key) error {
			if depth == 0 {
				return nil
			}
			entries = append(entries, describeKey(path, sub))
			if keysDepth > 0 && depth >= keysDepth {
				return walker.SkipSubtree
			}
			return nil
		})
	} else {
		var kids []*hive.Key
		kids, err = k.Subkeys()
		for _, sub := range kids {
			entries = append(entries, describeKey(keyName(sub), sub))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to list subkeys: %w", err)
	}

	if jsonOut {
		if entries == nil {
			entries = []keyEntry{}
		}
		return printJSON(entries)
	}
	for _, e := range entries {
		printInfo("%s\n", e.Path)
		printVerbose("  subkeys=%d values=%d modified=%s\n", e.Subkeys, e.Values, e.Modified)
	}
	if len(entries) == 0 {
		printVerbose("(no subkeys)\n")
	}
	return nil
}
