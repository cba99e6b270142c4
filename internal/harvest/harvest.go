// Package harvest scores how ready a crop is to be harvested and sold, from
// weather, market and soil signals.
package harvest

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agrichain/agri-advisor/internal/geo"
)

// Trend is the recent direction of mandi prices.
type Trend string

// Price trends.
const (
	TrendRising  Trend = "rising"
	TrendStable  Trend = "stable"
	TrendFalling Trend = "falling"
)

// Subscore ceilings.
const (
	MaxWeather   = 30
	MaxMarket    = 40
	MaxReadiness = 30
	MaxTotal     = 100
)

// Total thresholds. Both are inclusive lower bounds.
const (
	GreenFrom  = 80
	YellowFrom = 50
)

// Recommendations.
const (
	RecommendHarvestNow = "harvest now"
	RecommendConsider   = "consider harvesting"
	RecommendWait       = "wait"
)

// Inputs are the pre-resolved signals for one score.
type Inputs struct {
	TempC              float64 `json:"temp_c"`
	HumidityPct        float64 `json:"humidity_pct"`
	RainForecast       bool    `json:"rain_forecast"`
	AvgMandiPrice      float64 `json:"avg_mandi_price"`
	Trend              Trend   `json:"price_trend"`
	SoilMoistureFactor float64 `json:"soil_moisture_factor"`
}

// Breakdown is a harvest readiness score and its parts.
type Breakdown struct {
	WeatherSubscore   int    `json:"weather_subscore"`
	MarketSubscore    int    `json:"market_subscore"`
	ReadinessSubscore int    `json:"readiness_subscore"`
	Total             int    `json:"total"`
	Color             string `json:"color"`
	Recommendation    string `json:"recommendation"`
	Message           string `json:"message"`
}

var messages = map[string]string{
	RecommendHarvestNow: "Harvest now. Conditions are excellent.",
	RecommendConsider:   "Consider harvesting. Conditions are fair.",
	RecommendWait:       "Wait. Conditions are not favorable yet.",
}

// ParseTrend validates a trend name (case-insensitive).
func ParseTrend(s string) (Trend, error) {
	t := Trend(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TrendRising, TrendStable, TrendFalling:
		return t, nil
	default:
		return "", eris.Errorf("harvest: invalid price trend %q (want rising, stable or falling)", s)
	}
}

// Score computes the readiness breakdown. Penalties stack and every part is
// clamped to its range. A falling trend scores highest: the farmer should sell
// before prices drop further. Trends other than falling or stable are scored
// as rising.
func Score(in Inputs) Breakdown {
	weather := MaxWeather
	switch {
	case in.TempC > 40:
		weather -= 15
	case in.TempC > 35:
		weather -= 8
	}
	if in.HumidityPct > 80 {
		weather -= 10
	}
	if in.RainForecast {
		weather -= 15
	}
	weather = clamp(weather, 0, MaxWeather)

	var market int
	switch in.Trend {
	case TrendFalling:
		market = 40
	case TrendStable:
		market = 25
	default:
		market = 10
	}
	switch {
	case in.AvgMandiPrice > 20:
		market += 10
	case in.AvgMandiPrice < 10:
		market -= 10
	}
	market = clamp(market, 0, MaxMarket)

	readiness := clamp(int(20*in.SoilMoistureFactor), 0, MaxReadiness)

	total := clamp(weather+market+readiness, 0, MaxTotal)
	color, rec := band(total)

	return Breakdown{
		WeatherSubscore:   weather,
		MarketSubscore:    market,
		ReadinessSubscore: readiness,
		Total:             total,
		Color:             color,
		Recommendation:    rec,
		Message:           messages[rec],
	}
}

func band(total int) (color, recommendation string) {
	switch {
	case total >= GreenFrom:
		return "green", RecommendHarvestNow
	case total >= YellowFrom:
		return "yellow", RecommendConsider
	default:
		return "red", RecommendWait
	}
}

// AveragePrice returns the mean of prices rounded to two decimals, or 0 for
// an empty list.
func AveragePrice(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return geo.Round(sum/float64(len(prices)), 2)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
