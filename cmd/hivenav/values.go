package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newValuesCmd())
}

func newValuesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "values <hive> [path]",
		Short: "List the values of a key",
		Long: `The values command prints every value stored under the key at path
(the root when omitted) with its type and decoded data.

Example:
  hivenav values system.hive 'Select'
  hivenav values system.hive 'Select' --json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValues(args)
		},
	}
	return cmd
}

func runValues(args []string) error {
	keyPath := ""
	if len(args) > 1 {
		keyPath = args[1]
	}
	h, k, err := openKey(args[0], keyPath)
	if err != nil {
		return err
	}
	defer h.Close()

	vals := k.Values()
	out := make([]valueInfo, 0, len(vals))
	for _, v := range vals {
		out = append(out, describeValue(v))
	}

	if jsonOut {
		return printJSON(out)
	}
	if len(out) == 0 {
		printInfo("(no values)\n")
		return nil
	}
	for _, v := range out {
		printInfo("%-24s %-14s %s\n", displayValueName(v.Name), v.Type, v.Data)
		printVerbose("  size=%d\n", v.Size)
	}
	return nil
}
