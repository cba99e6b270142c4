package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agrichain/agri-advisor/internal/transit"
)

var transitCmd = &cobra.Command{
	Use:   "transit",
	Short: "Share of a load expected to spoil on the road",
	Long: `Estimates transit spoilage for a distance, assuming unshielded (open floor)
produce. Unknown crops get a flat 5% estimate.

Example:
  transit --crop tomato --distance 95 --temp 38`,
	RunE: runTransit,
}

type transitResult struct {
	Crop        string  `json:"crop"`
	DistanceKM  float64 `json:"distance_km"`
	TempC       float64 `json:"temp_c"`
	AvgSpeedKMH float64 `json:"avg_speed_kmh"`
	SpoilagePct float64 `json:"spoilage_pct"`
}

func init() {
	f := transitCmd.Flags()
	f.String("crop", "", "crop id")
	f.Float64("distance", 0, "distance to market in km")
	f.Float64("speed", 0, "average speed in km/h (default: transport.avg_speed_kmh)")
	addTempFlag(transitCmd)
	addOriginFlags(transitCmd)
	addFormatFlags(transitCmd, formatTable, formatJSON, formatCSV)
	_ = transitCmd.MarkFlagRequired("crop")
	_ = transitCmd.MarkFlagRequired("distance")

	rootCmd.AddCommand(transitCmd)
}

func runTransit(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	r := transitResult{}
	r.Crop, _ = cmd.Flags().GetString("crop")
	r.DistanceKM, _ = cmd.Flags().GetFloat64("distance")
	r.AvgSpeedKMH, _ = cmd.Flags().GetFloat64("speed")
	if r.AvgSpeedKMH <= 0 {
		r.AvgSpeedKMH = cfg.Transport.AvgSpeedKMH
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	r.TempC = resolveConditions(ctx, cmd).Current.TempC
	r.SpoilagePct = transit.NewModel(ds).SpoilagePct(r.DistanceKM, r.Crop, r.TempC, r.AvgSpeedKMH)

	return emit(cmd, r,
		func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s over %.1f km at %.1f°C (%.0f km/h): %.1f%% expected loss\n",
				display(r.Crop), r.DistanceKM, r.TempC, r.AvgSpeedKMH, r.SpoilagePct)
			return err
		},
		[]string{"crop", "distance_km", "temp_c", "avg_speed_kmh", "spoilage_pct"},
		func() [][]string {
			return [][]string{{r.Crop, f1(r.DistanceKM), f1(r.TempC), f1(r.AvgSpeedKMH), f1(r.SpoilagePct)}}
		},
	)
}
