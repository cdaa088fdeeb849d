package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/adjuster-intel/internal/fixture"
	"github.com/sells-group/adjuster-intel/internal/store"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace stored entities with a YAML or XLSX snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("store"); err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		return seed(ctx, st, seedFile)
	},
}

// seed migrates the schema and loads the snapshot at path into st.
func seed(ctx context.Context, st store.Store, path string) error {
	snap, err := fixture.Load(path)
	if err != nil {
		return eris.Wrap(err, "seed: load fixture")
	}

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "seed: migrate")
	}
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		return eris.Wrap(err, "seed: save snapshot")
	}

	zap.L().Info("seed complete",
		zap.String("file", path),
		zap.Int("adjusters", len(snap.Adjusters)),
		zap.Int("claims", len(snap.Claims)),
		zap.Int("interactions", len(snap.Interactions)),
		zap.Int("supplements", len(snap.Supplements)),
	)
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "snapshot file (.yaml, .yml or .xlsx)")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}
