package market

import (
	"sort"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/transit"
)

// Risk is the transit loss tier of a market.
type Risk string

// Risk tiers.
const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Evaluation is the net economics of selling a load at one market.
type Evaluation struct {
	MarketName         string         `json:"market_name"`
	Coordinate         geo.Coordinate `json:"coordinate"`
	DistanceKM         float64        `json:"distance_km"`
	Reach              string         `json:"reach"`
	PricePerKG         float64        `json:"price_per_kg"`
	FuelCost           float64        `json:"fuel_cost"`
	SpoilagePct        float64        `json:"spoilage_pct"`
	SpoilageLossRupees float64        `json:"spoilage_loss_rupees"`
	EffectiveVolumeKG  float64        `json:"effective_volume_kg"`
	GrossRevenue       float64        `json:"gross_revenue"`
	PocketCash         float64        `json:"pocket_cash"`
	RiskLevel          Risk           `json:"risk_level"`
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithFuelRate sets the fuel cost per km. Non-positive values are ignored.
func WithFuelRate(ratePerKM float64) Option {
	return func(r *Ranker) {
		if ratePerKM > 0 {
			r.fuelRate = ratePerKM
		}
	}
}

// WithAvgSpeed sets the truck speed used for transit loss. Non-positive
// values are ignored.
func WithAvgSpeed(kmh float64) Option {
	return func(r *Ranker) {
		if kmh > 0 {
			r.avgSpeed = kmh
		}
	}
}

// Ranker evaluates quotes for a load. It holds no mutable state after
// construction.
type Ranker struct {
	transit  *transit.Model
	fuelRate float64
	avgSpeed float64
}

// NewRanker creates a Ranker. Returns nil if tm is nil.
func NewRanker(tm *transit.Model, opts ...Option) *Ranker {
	if tm == nil {
		return nil
	}
	r := &Ranker{
		transit:  tm,
		fuelRate: geo.DefaultFuelRatePerKM,
		avgSpeed: geo.DefaultAvgSpeedKMH,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Evaluate computes pocket cash for every quote and returns the evaluations
// ordered by pocket cash, highest first. Quotes with equal pocket cash keep
// their input order. The listed price never affects the ordering.
func (r *Ranker) Evaluate(quotes []Quote, origin geo.Coordinate, volumeKG, tempC float64, crop string) []Evaluation {
	evals := make([]Evaluation, 0, len(quotes))
	for _, q := range quotes {
		evals = append(evals, r.evaluate(q, origin, volumeKG, tempC, crop))
	}

	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].PocketCash > evals[j].PocketCash
	})
	return evals
}

func (r *Ranker) evaluate(q Quote, origin geo.Coordinate, volumeKG, tempC float64, crop string) Evaluation {
	distance := geo.Distance(origin, q.Coordinate)
	fuel := geo.FuelCost(distance, r.fuelRate, true)
	pct := r.transit.SpoilagePct(distance, crop, tempC, r.avgSpeed)

	effective := volumeKG * (1 - pct/100)
	gross := effective * q.PricePerKG
	loss := (volumeKG - effective) * q.PricePerKG

	return Evaluation{
		MarketName:         q.MarketName,
		Coordinate:         q.Coordinate,
		DistanceKM:         distance,
		Reach:              geo.ClassifyReach(distance),
		PricePerKG:         q.PricePerKG,
		FuelCost:           fuel,
		SpoilagePct:        pct,
		SpoilageLossRupees: geo.Round(loss, 2),
		EffectiveVolumeKG:  geo.Round(effective, 1),
		GrossRevenue:       geo.Round(gross, 2),
		PocketCash:         geo.Round(gross-fuel, 2),
		RiskLevel:          RiskFor(pct),
	}
}

// RiskFor maps a transit spoilage percentage to a risk tier. Exactly 5 is
// medium and exactly 15 is high.
func RiskFor(spoilagePct float64) Risk {
	switch {
	case spoilagePct < 5:
		return RiskLow
	case spoilagePct < 15:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Best returns the top evaluation, or false when there are none.
func Best(evals []Evaluation) (Evaluation, bool) {
	if len(evals) == 0 {
		return Evaluation{}, false
	}
	return evals[0], true
}
