package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/adjuster-intel/internal/intel"
)

var intelCmd = &cobra.Command{
	Use:   "intel",
	Short: "Compute intelligence from the command line",
}

var intelAdjusterCmd = &cobra.Command{
	Use:   "adjuster <id>",
	Short: "Print intelligence for one adjuster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *intel.Engine) (any, error) {
			out, err := eng.Adjuster(ctx, args[0])
			if errors.Is(err, intel.ErrNotFound) {
				return nil, eris.Errorf("adjuster %s not found", args[0])
			}
			return out, err
		})
	},
}

var intelCarrierCmd = &cobra.Command{
	Use:   "carrier <name>",
	Short: "Print intelligence for one carrier (exact name match)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *intel.Engine) (any, error) {
			out, err := eng.Carrier(ctx, args[0])
			if errors.Is(err, intel.ErrNotFound) {
				return nil, eris.Errorf("carrier %q not found", args[0])
			}
			return out, err
		})
	},
}

var intelSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the portfolio performance summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEngine(cmd, func(ctx context.Context, eng *intel.Engine) (any, error) {
			return eng.Summary(ctx)
		})
	},
}

// withEngine opens the store, runs compute and prints the result as
// indented JSON on the command's stdout.
func withEngine(cmd *cobra.Command, compute func(context.Context, *intel.Engine) (any, error)) error {
	if err := cfg.Validate("store"); err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := initStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	out, err := compute(ctx, intel.NewEngine(st))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode output")
}

func init() {
	intelCmd.AddCommand(intelAdjusterCmd, intelCarrierCmd, intelSummaryCmd)
	rootCmd.AddCommand(intelCmd)
}
