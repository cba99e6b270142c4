package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/spoilage"
)

var spoilageCmd = &cobra.Command{
	Use:   "spoilage",
	Short: "Remaining shelf life of harvested produce",
	Long: `Predicts how many safe hours a crop has left in its current storage, using
the current temperature and, when a heatwave is forecast, the projected peak.

Examples:
  # Tomatoes on the floor for 10 hours at 38°C
  spoilage --crop tomato --storage open_floor --hours 10 --temp 38

  # Use live weather for the farm
  spoilage --crop onion --storage jute_bags --lat 21.1458 --lng 79.0882`,
	RunE: runSpoilage,
}

func init() {
	f := spoilageCmd.Flags()
	f.String("crop", "", "crop id (e.g. tomato)")
	f.String("storage", spoilage.DefaultStorage, "storage method")
	f.Float64("hours", 0, "hours since harvest")
	addTempFlag(spoilageCmd)
	addOriginFlags(spoilageCmd)
	addFormatFlags(spoilageCmd, formatTable, formatJSON, formatCSV)
	_ = spoilageCmd.MarkFlagRequired("crop")

	rootCmd.AddCommand(spoilageCmd)
}

func runSpoilage(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	crop, _ := cmd.Flags().GetString("crop")
	storage, _ := cmd.Flags().GetString("storage")
	hours, _ := cmd.Flags().GetFloat64("hours")

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	cond := resolveConditions(ctx, cmd)
	est, err := spoilage.NewModel(ds).WithWeather(crop, storage, hours, cond.Spoilage())
	if err != nil {
		return err
	}

	zap.L().Info("spoilage estimated",
		zap.String("crop", crop),
		zap.Float64("remaining_hours", est.RemainingHours),
		zap.String("risk", string(est.RiskLevel)),
	)

	return emit(cmd, est,
		func(w io.Writer) error { return writeSpoilageTable(w, est) },
		[]string{"crop", "storage_method", "temp_c", "temp_band", "total_safe_hours", "hours_since_harvest",
			"remaining_hours", "remaining_days", "spoilage_pct", "risk_level", "color", "heatwave_alert", "projected_if_heatwave"},
		func() [][]string {
			projected := ""
			if est.ProjectedIfHeatwave != nil {
				projected = f1(*est.ProjectedIfHeatwave)
			}
			return [][]string{{
				est.Crop, est.StorageMethod, f1(est.TempC), string(est.TempBand), f1(est.TotalSafeHours),
				f1(est.HoursElapsed), f1(est.RemainingHours), f1(est.RemainingDays), f1(est.SpoilagePct),
				string(est.RiskLevel), string(est.Color), fmt.Sprint(est.HeatwaveAlert), projected,
			}}
		},
	)
}

func writeSpoilageTable(w io.Writer, est *spoilage.WeatherEstimate) error {
	lines := []string{
		fmt.Sprintf("Crop:            %s", display(est.Crop)),
		fmt.Sprintf("Storage:         %s", display(est.StorageMethod)),
		fmt.Sprintf("Temperature:     %.1f°C (%s)", est.TempC, est.TempBand),
		fmt.Sprintf("Safe window:     %.1f h", est.TotalSafeHours),
		fmt.Sprintf("Remaining:       %.1f h (%.1f days)", est.RemainingHours, est.RemainingDays),
		fmt.Sprintf("Spoiled so far:  %.1f%%", est.SpoilagePct),
		fmt.Sprintf("Risk:            %s (%s)", display(string(est.RiskLevel)), est.Color),
	}
	if est.HeatwaveAlert && est.ProjectedIfHeatwave != nil {
		lines = append(lines, fmt.Sprintf("Heatwave:        up to %.1f°C, remaining would drop to %.1f h (%s)",
			est.MaxForecastTemp, *est.ProjectedIfHeatwave, est.ProjectedRiskIfHeatwave))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
