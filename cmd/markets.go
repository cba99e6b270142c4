package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/market"
	"github.com/agrichain/agri-advisor/internal/transit"
)

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "Rank mandis by pocket cash after fuel and transit spoilage",
	Long: `Evaluates every mandi quoting the crop and ranks them by the cash the farmer
keeps after transport fuel and produce lost on the road. A nearer mandi with a
lower price often beats a distant one with a higher price.

Quotes come from the built-in mandi price board unless --quotes names a
workbook (columns: market, price_per_kg, lat, lng; first row is a header).

Examples:
  # Rank tomato mandis for 800 kg from a farm near Nagpur
  markets --crop tomato --volume 800 --lat 21.1458 --lng 79.0882 --temp 38

  # Just list the nearest mandis
  markets --crop onion --lat 21.1458 --lng 79.0882 --nearby

  # Export to a spreadsheet or a map layer
  markets --crop tomato --volume 800 --lat 21.1458 --lng 79.0882 --format xlsx --output ranking.xlsx
  markets --crop tomato --volume 800 --lat 21.1458 --lng 79.0882 --format geojson`,
	RunE: runMarkets,
}

func init() {
	f := marketsCmd.Flags()
	f.String("crop", "", "crop id")
	f.Float64("volume", 0, "load size in kg")
	f.String("quotes", "", "xlsx workbook of quotes (default: built-in price board)")
	f.Bool("nearby", false, "list the nearest mandis instead of ranking")
	f.Int("limit", 0, "maximum mandis for --nearby (default: market.max_nearby)")
	addTempFlag(marketsCmd)
	addOriginFlags(marketsCmd)
	addFormatFlags(marketsCmd, formatTable, formatJSON, formatCSV, formatGeoJSON, formatXLSX)
	_ = marketsCmd.MarkFlagRequired("crop")
	_ = marketsCmd.MarkFlagRequired("lat")
	_ = marketsCmd.MarkFlagRequired("lng")

	rootCmd.AddCommand(marketsCmd)
}

func runMarkets(cmd *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f := cmd.Flags()
	crop, _ := f.GetString("crop")
	volume, _ := f.GetFloat64("volume")
	quotesPath, _ := f.GetString("quotes")
	nearby, _ := f.GetBool("nearby")
	format, _ := f.GetString("format")

	if nearby {
		if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
			return err
		}
	} else {
		if err := checkFormat(format, formatTable, formatJSON, formatCSV, formatGeoJSON, formatXLSX); err != nil {
			return err
		}
		if volume <= 0 {
			return eris.New("markets: --volume must be > 0")
		}
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	quotes := market.QuotesFromBoard(ds.Prices(crop))
	if quotesPath != "" {
		quotes, err = market.ReadQuotesXLSX(quotesPath)
		if err != nil {
			return eris.Wrap(err, "markets: read quotes")
		}
	}
	if len(quotes) == 0 {
		return eris.Errorf("markets: no mandi quotes for crop %q", crop)
	}

	origin, _ := originFrom(cmd)

	if nearby {
		limit, _ := f.GetInt("limit")
		if limit <= 0 {
			limit = cfg.Market.MaxNearby
		}
		return emitNearby(cmd, market.Nearby(quotes, origin, limit))
	}

	tempC := resolveConditions(ctx, cmd).Current.TempC
	ranker := market.NewRanker(transit.NewModel(ds),
		market.WithFuelRate(cfg.Transport.FuelRatePerKM),
		market.WithAvgSpeed(cfg.Transport.AvgSpeedKMH),
	)
	evals := ranker.Evaluate(quotes, origin, volume, tempC, crop)

	if best, ok := market.Best(evals); ok {
		zap.L().Info("markets ranked",
			zap.String("crop", crop),
			zap.Int("markets", len(evals)),
			zap.String("best", best.MarketName),
			zap.Float64("pocket_cash", best.PocketCash),
		)
	}

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput(closeFn, &err)

	switch format {
	case formatGeoJSON:
		raw, err := json.Marshal(market.FeatureCollection(evals))
		if err != nil {
			return eris.Wrap(err, "markets: encode geojson")
		}
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case formatXLSX:
		return market.WriteXLSX(w, evals)
	case formatJSON:
		return writeJSON(w, evals)
	case formatCSV:
		return writeCSV(w, evaluationHeader, evaluationRows(evals))
	default:
		return writeEvaluationTable(w, evals, tempC)
	}
}

var evaluationHeader = []string{
	"rank", "market_name", "distance_km", "reach", "price_per_kg", "fuel_cost", "spoilage_pct",
	"spoilage_loss_rupees", "effective_volume_kg", "gross_revenue", "pocket_cash", "risk_level",
}

func evaluationRows(evals []market.Evaluation) [][]string {
	rows := make([][]string, 0, len(evals))
	for i, e := range evals {
		rows = append(rows, []string{
			fmt.Sprint(i + 1), e.MarketName, f1(e.DistanceKM), e.Reach, f2(e.PricePerKG), f2(e.FuelCost),
			f1(e.SpoilagePct), f2(e.SpoilageLossRupees), f1(e.EffectiveVolumeKG), f2(e.GrossRevenue),
			f2(e.PocketCash), string(e.RiskLevel),
		})
	}
	return rows
}

func writeEvaluationTable(w io.Writer, evals []market.Evaluation, tempC float64) error {
	header := fmt.Sprintf("%-4s %-28s %9s %8s %9s %8s %12s %14s %-6s\n",
		"#", "Mandi", "Km", "₹/kg", "Fuel", "Loss %", "Loss ₹", "Pocket cash", "Risk")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "markets: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 106)); err != nil {
		return eris.Wrap(err, "markets: write table separator")
	}

	for i, e := range evals {
		name := truncate(e.MarketName, 28)
		line := fmt.Sprintf("%-4d %-28s %9.1f %8.2f %9s %8.1f %12s %14s %-6s\n",
			i+1, name, e.DistanceKM, e.PricePerKG, market.FormatRupees(e.FuelCost), e.SpoilagePct,
			market.FormatRupees(e.SpoilageLossRupees), market.FormatRupees(e.PocketCash), display(string(e.RiskLevel)))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "markets: write table row")
		}
	}

	if best, ok := market.Best(evals); ok {
		_, err := fmt.Fprintf(w, "\nBest at %.1f°C: %s, %s in pocket\n", tempC, best.MarketName, market.FormatRupees(best.PocketCash))
		return err
	}
	return nil
}

func emitNearby(cmd *cobra.Command, near []market.NearbyMarket) error {
	return emit(cmd, near,
		func(w io.Writer) error {
			for i, n := range near {
				if _, err := fmt.Fprintf(w, "%d. %-28s %7.1f km  %5.0f min  ₹%.2f/kg  (%s)\n",
					i+1, n.MarketName, n.DistanceKM, n.TravelMinutes, n.PricePerKG, n.Reach); err != nil {
					return err
				}
			}
			return nil
		},
		[]string{"market_name", "distance_km", "travel_minutes", "reach", "price_per_kg", "lat", "lng"},
		func() [][]string {
			rows := make([][]string, 0, len(near))
			for _, n := range near {
				rows = append(rows, []string{
					n.MarketName, f1(n.DistanceKM), f1(n.TravelMinutes), n.Reach, f2(n.PricePerKG),
					fmt.Sprint(n.Coordinate.Lat), fmt.Sprint(n.Coordinate.Lng),
				})
			}
			return rows
		},
	)
}
