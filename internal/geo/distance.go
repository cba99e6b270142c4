package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// EarthRadiusKM is the mean Earth radius used by the haversine formula.
const EarthRadiusKM = 6371.0

// Transport defaults for rural Indian roads.
const (
	DefaultAvgSpeedKMH   = 30.0 // km/h
	DefaultFuelRatePerKM = 8.0  // rupees per km
)

// Coordinate is a point in decimal degrees. Range checks are the caller's concern.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Point returns the coordinate as a WGS84 go-geom point (X = lng, Y = lat).
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}).SetSRID(4326)
}

// FromPoint converts a go-geom XY point back to a Coordinate.
func FromPoint(p *geom.Point) Coordinate {
	if p == nil || p.Empty() {
		return Coordinate{}
	}
	return Coordinate{Lat: p.Y(), Lng: p.X()}
}

// Distance returns the great-circle distance between a and b in kilometers,
// rounded to one decimal.
func Distance(a, b Coordinate) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Asin(math.Sqrt(h))

	return Round(EarthRadiusKM*c, 1)
}

// TravelTime returns the travel time in minutes at avgSpeedKMH, rounded to one
// decimal. A non-positive speed uses DefaultAvgSpeedKMH.
func TravelTime(distanceKM, avgSpeedKMH float64) float64 {
	if avgSpeedKMH <= 0 {
		avgSpeedKMH = DefaultAvgSpeedKMH
	}
	return Round(distanceKM/avgSpeedKMH*60, 1)
}

// FuelCost returns the transport cost in rupees. A round trip doubles the
// distance before the rate is applied.
func FuelCost(distanceKM, ratePerKM float64, roundTrip bool) float64 {
	effective := distanceKM
	if roundTrip {
		effective *= 2
	}
	return Round(effective*ratePerKM, 2)
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
