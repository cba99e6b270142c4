// Package geo provides distance, travel time and transport cost calculations
// between farms and mandis.
package geo

// Market reach classes.
const (
	ReachLocal    = "local"
	ReachRegional = "regional"
	ReachDistant  = "distant"
)

// Distance thresholds for classification (kilometers).
const (
	localThreshold    = 25.0  // same block or tehsil, a tractor-trolley run
	regionalThreshold = 100.0 // district mandi, a half-day round trip
)

// ClassifyReach returns the reach class for a one-way road distance.
// Rules:
//   - local: distance <= 25km
//   - regional: 25km < distance <= 100km
//   - distant: distance > 100km
func ClassifyReach(distanceKM float64) string {
	switch {
	case distanceKM <= localThreshold:
		return ReachLocal
	case distanceKM <= regionalThreshold:
		return ReachRegional
	default:
		return ReachDistant
	}
}
