package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configFile string

	// cfg is resolved from flags, environment and config file before each command.
	cfg config
)

var rootCmd = &cobra.Command{
	Use:   "hivenav",
	Short: "Navigate Windows registry hive files",
	Long: `hivenav reads Windows NT registry hive files (REGF) without modifying
them. It lists keys and values, resolves backslash paths, prints subtrees and
checks the structure for corruption.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd.Flags(), configFile)
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&configFile, "config", "", "Config file (default: ./hivenav.yaml, $HOME/.hivenav/hivenav.yaml)")
	addConfigFlags(pf)
}

// addConfigFlags registers the flags that loadConfig binds to config keys.
func addConfigFlags(pf *pflag.FlagSet) {
	pf.BoolP("ignore-case", "i", false, "Match key and value names case-insensitively")
	pf.Int("path-cache", 0, "Resolved path cache size (0 = default, negative = off)")
	pf.Int("max-cell-size", 0, "Reject cells larger than this many bytes (0 = default)")
	pf.Bool("no-mmap", false, "Read through file seeks instead of memory mapping")
	pf.String("log-level", "", "Log level for library diagnostics: debug, info, warn, error (empty = off)")
	pf.Bool("log-json", false, "Emit diagnostics as JSON")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
