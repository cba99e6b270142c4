package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nagpur   = Coordinate{Lat: 21.1458, Lng: 79.0882}
	amravati = Coordinate{Lat: 20.9374, Lng: 77.7796}
	mumbai   = Coordinate{Lat: 19.0760, Lng: 72.8777}
)

// referenceHaversine is an unrounded textbook implementation used to check
// Distance against.
func referenceHaversine(a, b Coordinate) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * 6371 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func TestDistance_NagpurToAmravati(t *testing.T) {
	d := Distance(nagpur, amravati)
	assert.GreaterOrEqual(t, d, 130.0)
	assert.LessOrEqual(t, d, 160.0)
}

func TestDistance_SamePointIsZero(t *testing.T) {
	for _, c := range []Coordinate{nagpur, amravati, mumbai, {Lat: 0, Lng: 0}, {Lat: -33.9, Lng: 151.2}} {
		assert.Equal(t, 0.0, Distance(c, c))
	}
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{nagpur, amravati},
		{nagpur, mumbai},
		{amravati, mumbai},
		{{Lat: 8.5, Lng: 76.9}, {Lat: 34.1, Lng: 74.8}},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1]), Distance(p[1], p[0]))
	}
}

func TestDistance_MatchesReference(t *testing.T) {
	pairs := [][2]Coordinate{
		{nagpur, amravati},
		{nagpur, mumbai},
		{{Lat: 21.1458, Lng: 79.0882}, {Lat: 21.2, Lng: 79.1}},
		{{Lat: 8.5, Lng: 76.9}, {Lat: 34.1, Lng: 74.8}},
	}
	for _, p := range pairs {
		want := referenceHaversine(p[0], p[1])
		got := Distance(p[0], p[1])
		assert.InDelta(t, want, got, math.Max(want*0.005, 0.05))
	}
}

func TestDistance_RoundedToOneDecimal(t *testing.T) {
	d := Distance(nagpur, mumbai)
	assert.InDelta(t, d, math.Round(d*10)/10, 1e-9)
}

func TestTravelTime(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		speed    float64
		want     float64
	}{
		{"150 km at 30 km/h", 150, 30, 300},
		{"45 km at 60 km/h", 45, 60, 45},
		{"zero distance", 0, 30, 0},
		{"non-positive speed uses default", 15, 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TravelTime(tt.distance, tt.speed), 0.001)
		})
	}
}

func TestFuelCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		distance  float64
		rate      float64
		roundTrip bool
		want      float64
	}{
		{"round trip 100 km", 100, 8.0, true, 1600.0},
		{"one way 100 km", 100, 8.0, false, 800.0},
		{"round trip 12.5 km", 12.5, DefaultFuelRatePerKM, true, 200.0},
		{"zero distance", 0, 8.0, true, 0},
		{"custom rate", 40, 11.5, false, 460.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FuelCost(tt.distance, tt.rate, tt.roundTrip))
		})
	}
}

func TestCoordinatePointRoundTrip(t *testing.T) {
	p := nagpur.Point()
	require.NotNil(t, p)
	assert.Equal(t, 4326, p.SRID())
	assert.InDelta(t, 79.0882, p.X(), 1e-9)
	assert.InDelta(t, 21.1458, p.Y(), 1e-9)
	assert.Equal(t, nagpur, FromPoint(p))
}

func TestFromPoint_Nil(t *testing.T) {
	assert.Equal(t, Coordinate{}, FromPoint(nil))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 137.8, Round(137.8412, 1))
	assert.Equal(t, 3.5, Round(3.4722, 1))
	assert.Equal(t, 1520.0, Round(1520.0000001, 2))
}
