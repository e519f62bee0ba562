package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getRaw bool

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <hive> <path> <value>",
		Short: "Print a single value",
		Long: `The get command looks up one value by key path and value name. Use an
empty name ('') for the key's default value.

Example:
  hivenav get system.hive 'Select' Current
  hivenav get software.hive 'Microsoft\Windows NT\CurrentVersion' ProductName --raw`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	cmd.Flags().BoolVar(&getRaw, "raw", false, "Print the data bytes as hex regardless of type")
	return cmd
}

func runGet(args []string) error {
	h, k, err := openKey(args[0], args[1])
	if err != nil {
		return err
	}
	defer h.Close()

	v, err := k.Value(args[2])
	if err != nil {
		return fmt.Errorf("key %q: %w", args[1], err)
	}

	info := describeValue(v)
	if getRaw {
		info.Data = fmt.Sprintf("%x", v.Data())
	}
	if jsonOut {
		return printJSON(info)
	}
	printVerbose("%s (%s, %d bytes)\n", displayValueName(info.Name), info.Type, info.Size)
	printInfo("%s\n", info.Data)
	return nil
}
