package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/nthive/hive/walker"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <hive>",
		Short: "Report base block metadata and tree totals",
		Long: `The info command decodes the hive's base block and walks the whole key
tree, reporting versions, sequence numbers, checksum status and key/value
totals.

Example:
  hivenav info system.hive
  hivenav info system.hive --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args)
		},
	}
	return cmd
}

type hiveInfo struct {
	File          string `json:"file"`
	Size          int64  `json:"size"`
	Version       string `json:"version"`
	EmbeddedName  string `json:"embedded_name"`
	LastWrite     string `json:"last_write"`
	Sequence      string `json:"sequence"`
	ChecksumValid bool   `json:"checksum_valid"`
	RootOffset    string `json:"root_offset"`
	RootName      string `json:"root_name"`
	Keys          uint64 `json:"keys"`
	Values        uint64 `json:"values"`
	ValueBytes    uint64 `json:"value_bytes"`
	MaxDepth      int    `json:"max_depth"`
}

func runInfo(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	hivePath := args[0]

	h, err := openHive(hivePath)
	if err != nil {
		return err
	}
	defer h.Close()

	root, err := h.Root()
	if err != nil {
		return fmt.Errorf("failed to read root key: %w", err)
	}
	st, err := walker.Count(ctx, root)
	if err != nil {
		return fmt.Errorf("failed to walk hive: %w", err)
	}

	hdr := h.Header()
	info := hiveInfo{
		File:          hivePath,
		Version:       fmt.Sprintf("%d.%d", hdr.MajorVersion, hdr.MinorVersion),
		EmbeddedName:  hdr.FileName,
		Sequence:      fmt.Sprintf("%d/%d", hdr.PrimarySequence, hdr.SecondarySequence),
		ChecksumValid: hdr.ChecksumValid(),
		RootOffset:    fmt.Sprintf("0x%x", hdr.RootCellOffset),
		RootName:      keyName(root),
		LastWrite:     root.Timestamp().Format("2006-01-02 15:04:05 MST"),
		Keys:          st.Keys,
		Values:        st.Values,
		ValueBytes:    st.ValueBytes,
		MaxDepth:      st.MaxDepth,
	}
	if stat, err := os.Stat(hivePath); err == nil {
		info.Size = stat.Size()
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nHive Information:\n")
	printInfo("  File: %s\n", info.File)
	if info.Size < 1024*1024 {
		printInfo("  Size: %.1f KB\n", float64(info.Size)/1024)
	} else {
		printInfo("  Size: %.1f MB\n", float64(info.Size)/(1024*1024))
	}
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Embedded name: %s\n", info.EmbeddedName)
	printInfo("  Sequence: %s\n", info.Sequence)
	printInfo("  Checksum valid: %t\n", info.ChecksumValid)
	printInfo("  Root: %s at %s (last write %s)\n", info.RootName, info.RootOffset, info.LastWrite)
	printInfo("  Keys: %d\n", info.Keys)
	printInfo("  Values: %d (%d bytes)\n", info.Values, info.ValueBytes)
	printInfo("  Max depth: %d\n", info.MaxDepth)

	cs := h.Stats()
	printVerbose("  Store reads: %d, cached keys: %d\n", cs.StoreReads, cs.Keys)
	return nil
}
