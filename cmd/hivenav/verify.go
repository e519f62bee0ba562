package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/joshuapare/nthive/hive/verify"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <hive>",
		Short: "Check the hive structure for corruption",
		Long: `The verify command checks the base block, then walks every key and reports
structural problems: unreadable subkey lists, count mismatches, bad hash
hints and undecodable names. It exits non-zero when anything is found.

Example:
  hivenav verify system.hive
  hivenav verify system.hive --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), args)
		},
	}
	return cmd
}

type problem struct {
	Type    string `json:"type"`
	Path    string `json:"path,omitempty"`
	Offset  string `json:"offset,omitempty"`
	Message string `json:"message"`
}

type verifyResult struct {
	File     string    `json:"file"`
	Valid    bool      `json:"valid"`
	Problems []problem `json:"problems"`
}

func runVerify(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	h, err := openHive(args[0])
	if err != nil {
		return err
	}
	defer h.Close()

	var result error
	if err := verify.Header(h.Header()); err != nil {
		result = multierror.Append(result, err)
	}
	root, err := h.Root()
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("root key: %w", err))
	} else if err := verify.Tree(ctx, root); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		result = multierror.Append(result, err)
	}

	res := verifyResult{File: args[0], Problems: []problem{}}
	var merr *multierror.Error
	if errors.As(result, &merr) {
		for _, e := range merr.Errors {
			res.Problems = append(res.Problems, toProblem(e))
		}
	}
	res.Valid = len(res.Problems) == 0

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		for _, p := range res.Problems {
			loc := p.Path
			if loc == "" {
				loc = p.Offset
			}
			printInfo("[%s] %s: %s\n", p.Type, loc, p.Message)
		}
		if res.Valid {
			printInfo("✓ %s: no problems found\n", args[0])
		}
	}
	if !res.Valid {
		return fmt.Errorf("%d problem(s) found", len(res.Problems))
	}
	return nil
}

func toProblem(err error) problem {
	var ve *verify.ValidationError
	if !errors.As(err, &ve) {
		return problem{Type: "Error", Message: err.Error()}
	}
	p := problem{Type: ve.Type, Path: ve.Path, Message: ve.Message}
	if ve.Offset >= 0 {
		p.Offset = fmt.Sprintf("0x%x", ve.Offset)
	}
	if ve.Err != nil {
		p.Message += ": " + ve.Err.Error()
	}
	return p
}
