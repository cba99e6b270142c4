package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/harvest"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Harvest readiness score from weather, market and soil",
	Long: `Scores harvest readiness out of 100: weather (30), market (40) and soil
readiness (30). 80 and above means harvest now, 50 to 79 consider harvesting,
below 50 wait.

Weather comes from the provider for --lat/--lng unless --temp is given. The
average price defaults to the mean of the crop's mandi price board.

Examples:
  harvest --crop tomato --soil black --temp 30 --humidity 60 --trend falling
  harvest --crop onion --soil alluvial --lat 21.1458 --lng 79.0882 --price 18`,
	RunE: runHarvest,
}

type harvestResult struct {
	Crop   string         `json:"crop"`
	Soil   string         `json:"soil"`
	Inputs harvest.Inputs `json:"inputs"`
	harvest.Breakdown
}

func init() {
	f := harvestCmd.Flags()
	f.String("crop", "", "crop id")
	f.String("soil", "", "soil id (unknown soils score as average)")
	f.Float64("humidity", 0, "relative humidity % (default: from weather)")
	f.Bool("rain", false, "rain is forecast (default: from weather)")
	f.String("trend", string(harvest.TrendStable), "price trend: rising, stable or falling")
	f.Float64("price", 0, "average mandi price in ₹/kg (default: price board mean)")
	addTempFlag(harvestCmd)
	addOriginFlags(harvestCmd)
	addFormatFlags(harvestCmd, formatTable, formatJSON, formatCSV)
	_ = harvestCmd.MarkFlagRequired("crop")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f := cmd.Flags()
	format, _ := f.GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	crop, _ := f.GetString("crop")
	soil, _ := f.GetString("soil")
	trendFlag, _ := f.GetString("trend")
	trend, err := harvest.ParseTrend(trendFlag)
	if err != nil {
		return err
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	cond := resolveConditions(ctx, cmd)
	in := harvest.Inputs{
		TempC:              cond.Current.TempC,
		HumidityPct:        cond.Current.HumidityPct,
		RainForecast:       cond.RainExpected,
		Trend:              trend,
		SoilMoistureFactor: ds.MoistureFactor(soil),
	}
	if f.Changed("humidity") {
		in.HumidityPct, _ = f.GetFloat64("humidity")
	}
	if f.Changed("rain") {
		in.RainForecast, _ = f.GetBool("rain")
	}
	if f.Changed("price") {
		in.AvgMandiPrice, _ = f.GetFloat64("price")
	} else {
		board := ds.Prices(crop)
		prices := make([]float64, 0, len(board))
		for _, p := range board {
			prices = append(prices, p.PricePerKG)
		}
		in.AvgMandiPrice = harvest.AveragePrice(prices)
	}

	r := harvestResult{Crop: crop, Soil: soil, Inputs: in, Breakdown: harvest.Score(in)}

	zap.L().Info("harvest scored",
		zap.String("crop", crop),
		zap.Int("total", r.Total),
		zap.String("recommendation", r.Recommendation),
	)

	return emit(cmd, r,
		func(w io.Writer) error {
			_, err := fmt.Fprintf(w,
				"%s: %d/100 (%s)\n  weather   %2d/%d  (%.1f°C, %.0f%% humidity, rain %t)\n  market    %2d/%d  (₹%.2f/kg, %s)\n  readiness %2d/%d  (soil factor %.2f)\n%s\n",
				display(r.Crop), r.Total, r.Color,
				r.WeatherSubscore, harvest.MaxWeather, in.TempC, in.HumidityPct, in.RainForecast,
				r.MarketSubscore, harvest.MaxMarket, in.AvgMandiPrice, in.Trend,
				r.ReadinessSubscore, harvest.MaxReadiness, in.SoilMoistureFactor,
				r.Message)
			return err
		},
		[]string{"crop", "soil", "weather_subscore", "market_subscore", "readiness_subscore", "total", "color", "recommendation"},
		func() [][]string {
			return [][]string{{
				r.Crop, r.Soil, fmt.Sprint(r.WeatherSubscore), fmt.Sprint(r.MarketSubscore),
				fmt.Sprint(r.ReadinessSubscore), fmt.Sprint(r.Total), r.Color, r.Recommendation,
			}}
		},
	)
}
