package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/config"
	"github.com/agrichain/agri-advisor/internal/refdata"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agri-advisor",
	Short: "Post-harvest decision support for smallholder farmers",
	Long: `Estimates how long harvested produce stays sellable, which mandi leaves the
most cash in the farmer's pocket after fuel and transit spoilage, which cheap
storage upgrades pay for themselves, and whether today is a good day to harvest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.ReplaceGlobals(zap.L().With(
			zap.String("run_id", uuid.NewString()),
			zap.String("command", cmd.CommandPath()),
		))

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadDataset returns the configured reference dataset.
func loadDataset() (*refdata.Dataset, error) {
	path := ""
	if cfg != nil {
		path = cfg.Refdata.Path
	}
	return refdata.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
