package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/preservation"
	"github.com/agrichain/agri-advisor/internal/spoilage"
)

var preserveCmd = &cobra.Command{
	Use:   "preserve",
	Short: "Low-cost storage upgrades and what they are worth",
}

var preserveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List storage upgrades for a crop, best return first",
	Long: `Lists the preservation methods available for a crop, ranked by return on
investment (rupees saved per rupee spent). Free methods rank first. The
current storage method is left out.

Example:
  preserve list --crop tomato --current open_floor`,
	RunE: runPreserveList,
}

var preserveBenefitCmd = &cobra.Command{
	Use:   "benefit",
	Short: "Extra shelf life from switching to a storage method",
	Long: `Compares freshly harvested produce in its current storage with the same
produce after adopting a preservation method.

Example:
  preserve benefit --crop tomato --method zecc --current open_floor --temp 30`,
	RunE: runPreserveBenefit,
}

func init() {
	lf := preserveListCmd.Flags()
	lf.String("crop", "", "crop id")
	lf.String("current", spoilage.DefaultStorage, "current storage method")
	addFormatFlags(preserveListCmd, formatTable, formatJSON, formatCSV)
	_ = preserveListCmd.MarkFlagRequired("crop")

	bf := preserveBenefitCmd.Flags()
	bf.String("crop", "", "crop id")
	bf.String("method", "", "preservation method id")
	bf.String("current", spoilage.DefaultStorage, "current storage method")
	addTempFlag(preserveBenefitCmd)
	addOriginFlags(preserveBenefitCmd)
	addFormatFlags(preserveBenefitCmd, formatTable, formatJSON, formatCSV)
	_ = preserveBenefitCmd.MarkFlagRequired("crop")
	_ = preserveBenefitCmd.MarkFlagRequired("method")

	preserveCmd.AddCommand(preserveListCmd, preserveBenefitCmd)
	rootCmd.AddCommand(preserveCmd)
}

func newAdvisor() (*preservation.Advisor, error) {
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	return preservation.NewAdvisor(spoilage.NewModel(ds), ds), nil
}

func runPreserveList(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	crop, _ := cmd.Flags().GetString("crop")
	current, _ := cmd.Flags().GetString("current")

	adv, err := newAdvisor()
	if err != nil {
		return err
	}
	opts := adv.ListMethods(crop, current)
	if len(opts) == 0 {
		zap.L().Warn("no preservation methods for crop", zap.String("crop", crop))
	}

	return emit(cmd, opts,
		func(w io.Writer) error {
			for i, o := range opts {
				roi := fmt.Sprintf("%.1fx", o.ROI)
				if o.ROI == preservation.FreeROI {
					roi = "free"
				}
				if _, err := fmt.Fprintf(w, "%d. %-30s cost ₹%-7.0f saves ₹%-7.0f +%.1f days  ROI %s\n   %s\n",
					i+1, o.NameEN, o.CostRupees, o.SavesRupees, o.ExtraDays, roi, o.InstructionsEN); err != nil {
					return err
				}
			}
			return nil
		},
		[]string{"id", "name_en", "cost_rupees", "saves_rupees", "extra_days", "roi"},
		func() [][]string {
			rows := make([][]string, 0, len(opts))
			for _, o := range opts {
				rows = append(rows, []string{o.ID, o.NameEN, f2(o.CostRupees), f2(o.SavesRupees), f1(o.ExtraDays), f1(o.ROI)})
			}
			return rows
		},
	)
}

func runPreserveBenefit(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	crop, _ := cmd.Flags().GetString("crop")
	method, _ := cmd.Flags().GetString("method")
	current, _ := cmd.Flags().GetString("current")

	adv, err := newAdvisor()
	if err != nil {
		return err
	}

	tempC := resolveConditions(ctx, cmd).Current.TempC
	b, err := adv.BenefitOfSwitch(crop, method, current, tempC)
	if err != nil {
		return err
	}

	zap.L().Info("preservation benefit",
		zap.String("crop", crop),
		zap.String("method", b.NewMethod),
		zap.Float64("extra_hours", b.ExtraHoursGained),
		zap.Float64("roi", b.ROI),
	)

	return emit(cmd, b,
		func(w io.Writer) error {
			_, err := fmt.Fprintf(w,
				"%s: %s -> %s\n  remaining now:   %.1f h\n  after switching: %.1f h (+%.1f h, +%.1f days)\n  cost ₹%.0f, saves ₹%.0f, ROI %.1f: %s\n",
				display(b.Crop), display(b.CurrentMethod), display(b.NewMethod),
				b.CurrentRemainingHours, b.NewRemainingHours, b.ExtraHoursGained, b.ExtraDaysGained,
				b.CostRupees, b.ValueSavedRupees, b.ROI, b.Recommendation)
			return err
		},
		[]string{"crop", "current_method", "new_method", "current_remaining_hours", "new_remaining_hours",
			"extra_hours_gained", "extra_days_gained", "cost_rupees", "value_saved_rupees", "roi", "recommendation"},
		func() [][]string {
			return [][]string{{
				b.Crop, b.CurrentMethod, b.NewMethod, f1(b.CurrentRemainingHours), f1(b.NewRemainingHours),
				f1(b.ExtraHoursGained), f1(b.ExtraDaysGained), f2(b.CostRupees), f2(b.ValueSavedRupees),
				f1(b.ROI), b.Recommendation,
			}}
		},
	)
}
