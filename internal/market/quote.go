// Package market ranks mandis by the cash a farmer actually takes home after
// fuel and transit spoilage.
package market

import (
	"sort"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/refdata"
)

// Quote is one mandi's price offer.
type Quote struct {
	MarketName string         `json:"market_name"`
	PricePerKG float64        `json:"price_per_kg"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// NearbyMarket is a quote annotated with its distance from the farm.
type NearbyMarket struct {
	Quote
	DistanceKM    float64 `json:"distance_km"`
	TravelMinutes float64 `json:"travel_minutes"`
	Reach         string  `json:"reach"`
}

// QuotesFromBoard converts static price board entries into quotes.
func QuotesFromBoard(prices []refdata.MandiPrice) []Quote {
	quotes := make([]Quote, 0, len(prices))
	for _, p := range prices {
		quotes = append(quotes, Quote{
			MarketName: p.Mandi,
			PricePerKG: p.PricePerKG,
			Coordinate: geo.Coordinate{Lat: p.Lat, Lng: p.Lng},
		})
	}
	return quotes
}

// Nearby returns up to maxCount quotes ordered by distance from origin,
// nearest first. A non-positive maxCount returns all of them.
func Nearby(quotes []Quote, origin geo.Coordinate, maxCount int) []NearbyMarket {
	out := make([]NearbyMarket, 0, len(quotes))
	for _, q := range quotes {
		d := geo.Distance(origin, q.Coordinate)
		out = append(out, NearbyMarket{
			Quote:         q,
			DistanceKM:    d,
			TravelMinutes: geo.TravelTime(d, geo.DefaultAvgSpeedKMH),
			Reach:         geo.ClassifyReach(d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKM < out[j].DistanceKM
	})

	if maxCount > 0 && len(out) > maxCount {
		out = out[:maxCount]
	}
	return out
}
