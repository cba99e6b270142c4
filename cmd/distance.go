package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agrichain/agri-advisor/internal/geo"
)

var distanceCmd = &cobra.Command{
	Use:   "distance",
	Short: "Distance, travel time and fuel cost between two points",
	Long: `Great-circle distance between a farm and a mandi, with truck travel time and
fuel cost at the configured rates.

Examples:
  # Nagpur to Amravati, round trip
  distance --from-lat 21.1458 --from-lng 79.0882 --to-lat 20.9374 --to-lng 77.7796

  # One way at 40 km/h
  distance --from-lat 21.1458 --from-lng 79.0882 --to-lat 20.9374 --to-lng 77.7796 --one-way --speed 40`,
	RunE: runDistance,
}

type distanceResult struct {
	From          geo.Coordinate `json:"from"`
	To            geo.Coordinate `json:"to"`
	DistanceKM    float64        `json:"distance_km"`
	Reach         string         `json:"reach"`
	TravelMinutes float64        `json:"travel_minutes"`
	FuelCost      float64        `json:"fuel_cost"`
	RoundTrip     bool           `json:"round_trip"`
}

func init() {
	f := distanceCmd.Flags()
	f.Float64("from-lat", 0, "origin latitude")
	f.Float64("from-lng", 0, "origin longitude")
	f.Float64("to-lat", 0, "destination latitude")
	f.Float64("to-lng", 0, "destination longitude")
	f.Float64("speed", 0, "average speed in km/h (default: transport.avg_speed_kmh)")
	f.Float64("fuel-rate", 0, "fuel cost per km (default: transport.fuel_rate_per_km)")
	f.Bool("one-way", false, "cost a one-way trip instead of a round trip")
	_ = distanceCmd.MarkFlagRequired("from-lat")
	_ = distanceCmd.MarkFlagRequired("from-lng")
	_ = distanceCmd.MarkFlagRequired("to-lat")
	_ = distanceCmd.MarkFlagRequired("to-lng")
	addFormatFlags(distanceCmd, formatTable, formatJSON, formatCSV)

	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, _ []string) error {
	f := cmd.Flags()
	format, _ := f.GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	fromLat, _ := f.GetFloat64("from-lat")
	fromLng, _ := f.GetFloat64("from-lng")
	toLat, _ := f.GetFloat64("to-lat")
	toLng, _ := f.GetFloat64("to-lng")
	speed, _ := f.GetFloat64("speed")
	rate, _ := f.GetFloat64("fuel-rate")
	oneWay, _ := f.GetBool("one-way")

	if speed <= 0 {
		speed = cfg.Transport.AvgSpeedKMH
	}
	if rate <= 0 {
		rate = cfg.Transport.FuelRatePerKM
	}

	r := distanceResult{
		From:      geo.Coordinate{Lat: fromLat, Lng: fromLng},
		To:        geo.Coordinate{Lat: toLat, Lng: toLng},
		RoundTrip: !oneWay,
	}
	r.DistanceKM = geo.Distance(r.From, r.To)
	r.Reach = geo.ClassifyReach(r.DistanceKM)
	r.TravelMinutes = geo.TravelTime(r.DistanceKM, speed)
	r.FuelCost = geo.FuelCost(r.DistanceKM, rate, r.RoundTrip)

	return emit(cmd, r,
		func(w io.Writer) error {
			trip := "round trip"
			if oneWay {
				trip = "one way"
			}
			_, err := fmt.Fprintf(w, "Distance:    %.1f km (%s)\nTravel time: %.1f min\nFuel cost:   ₹%.2f (%s)\n",
				r.DistanceKM, r.Reach, r.TravelMinutes, r.FuelCost, trip)
			return err
		},
		[]string{"distance_km", "reach", "travel_minutes", "fuel_cost", "round_trip"},
		func() [][]string {
			return [][]string{{f1(r.DistanceKM), r.Reach, f1(r.TravelMinutes), f2(r.FuelCost), fmt.Sprint(r.RoundTrip)}}
		},
	)
}
