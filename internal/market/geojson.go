package market

import (
	"strconv"

	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection renders ranked evaluations as GeoJSON points. Each
// feature carries its rank and economics as properties.
func FeatureCollection(evals []Evaluation) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(evals)),
	}
	for i, e := range evals {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       strconv.Itoa(i + 1),
			Geometry: e.Coordinate.Point(),
			Properties: map[string]any{
				"rank":                 i + 1,
				"market_name":          e.MarketName,
				"distance_km":          e.DistanceKM,
				"reach":                e.Reach,
				"price_per_kg":         e.PricePerKG,
				"fuel_cost":            e.FuelCost,
				"spoilage_pct":         e.SpoilagePct,
				"spoilage_loss_rupees": e.SpoilageLossRupees,
				"effective_volume_kg":  e.EffectiveVolumeKG,
				"gross_revenue":        e.GrossRevenue,
				"pocket_cash":          e.PocketCash,
				"risk_level":           string(e.RiskLevel),
			},
		})
	}
	return fc
}
