package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nthive/hive/printer"
)

var (
	exportOutput string
	exportPrefix string
	exportDepth  int
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <hive> [path]",
		Short: "Export a subtree as a .reg file",
		Long: `The export command writes the key at path and everything below it in
Windows Registry Editor 5.00 format.

Example:
  hivenav export system.hive 'Select' --prefix 'HKEY_LOCAL_MACHINE\SYSTEM'
  hivenav export software.hive -o software.reg`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), args)
		},
	}
	cmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&exportPrefix, "prefix", printer.DefaultPrefix, "Root path written before every key")
	cmd.Flags().IntVarP(&exportDepth, "depth", "d", 0, "Maximum depth to export (0 = unlimited)")
	return cmd
}

func runExport(ctx context.Context, args []string) error {
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

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	opts := printer.Options{Prefix: exportPrefix, Path: keyPath, MaxDepth: exportDepth}
	if err := printer.Export(ctx, w, k, opts); err != nil {
		return err
	}
	if exportOutput != "" {
		printVerbose("Exported to %s\n", exportOutput)
	}
	return nil
}
