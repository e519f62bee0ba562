package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nthive/hive"
	"github.com/joshuapare/nthive/hive/walker"
)

var (
	treeDepth  int
	treeValues bool
)

func init() {
	rootCmd.AddCommand(newTreeCmd())
}

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <hive> [path]",
		Short: "Print a key subtree",
		Long: `The tree command prints the key at path and its descendants as an
indented tree.

Example:
  hivenav tree system.hive --depth 2
  hivenav tree system.hive 'ControlSet001\Control' --values`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd.Context(), args)
		},
	}
	cmd.Flags().IntVarP(&treeDepth, "depth", "d", 0, "Maximum depth to print (0 = unlimited)")
	cmd.Flags().BoolVar(&treeValues, "values", false, "Include values under each key")
	return cmd
}

type treeNode struct {
	Name     string      `json:"name"`
	Values   []valueInfo `json:"values,omitempty"`
	Children []*treeNode `json:"children,omitempty"`
}

func runTree(ctx context.Context, args []string) error {
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

	// stack[d] is the most recent node at depth d.
	var stack []*treeNode
	var root *treeNode
	err = walker.Walk(ctx, k, func(_ string, depth int, sub *hive.Key) error {
		n := &treeNode{Name: keyName(sub)}
		if treeValues {
			for _, v := range sub.Values() {
				n.Values = append(n.Values, describeValue(v))
			}
		}
		stack = append(stack[:depth], n)
		if depth == 0 {
			root = n
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, n)
		}
		if treeDepth > 0 && depth >= treeDepth {
			return walker.SkipSubtree
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}

	if jsonOut {
		return printJSON(root)
	}
	printTree(root, 0)
	return nil
}

func printTree(n *treeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	printInfo("%s%s\n", indent, n.Name)
	for _, v := range n.Values {
		printInfo("%s  = %s [%s] %s\n", indent, displayValueName(v.Name), v.Type, v.Data)
	}
	for _, c := range n.Children {
		printTree(c, depth+1)
	}
}
