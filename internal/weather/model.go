package weather

import (
	"strings"

	"github.com/agrichain/agri-advisor/internal/spoilage"
)

// HeatwaveMargin is how far (°C) the forecast peak must exceed the current
// temperature to raise a heatwave alert.
const HeatwaveMargin = 5.0

// Snapshot is the weather at one moment.
type Snapshot struct {
	TempC       float64 `json:"temp_c"`
	HumidityPct float64 `json:"humidity_pct"`
	Description string  `json:"description"`
	WindSpeedMS float64 `json:"wind_speed_ms"`
	FeelsLikeC  float64 `json:"feels_like_c"`
	IsFallback  bool    `json:"is_fallback"`
}

// ForecastEntry is one 3-hour forecast slot.
type ForecastEntry struct {
	Time        string  `json:"datetime,omitempty"`
	TempC       float64 `json:"temp_c"`
	HumidityPct float64 `json:"humidity_pct"`
	Description string  `json:"description"`
	IsFallback  bool    `json:"is_fallback"`
}

// Conditions combine current weather and forecast with derived flags.
type Conditions struct {
	Current         Snapshot        `json:"current"`
	Forecast        []ForecastEntry `json:"forecast"`
	MaxForecastTemp float64         `json:"max_forecast_temp"`
	HeatwaveAlert   bool            `json:"heatwave_alert"`
	RainExpected    bool            `json:"rain_expected"`
}

// Fallback is served when no API key is configured.
func Fallback() Snapshot {
	return Snapshot{
		TempC:       35.0,
		HumidityPct: 45,
		Description: "unknown (fallback)",
		WindSpeedMS: 2.0,
		FeelsLikeC:  37.0,
		IsFallback:  true,
	}
}

// FallbackForecast is ForecastEntries copies of the fallback snapshot.
func FallbackForecast() []ForecastEntry {
	fb := Fallback()
	out := make([]ForecastEntry, ForecastEntries)
	for i := range out {
		out[i] = ForecastEntry{
			TempC:       fb.TempC,
			HumidityPct: fb.HumidityPct,
			Description: fb.Description,
			IsFallback:  true,
		}
	}
	return out
}

// Summarize derives heatwave and rain flags. The peak is the warmest
// forecast slot, or the current temperature when the forecast is empty.
func Summarize(current Snapshot, forecast []ForecastEntry) Conditions {
	peak := current.TempC
	rain := false
	for i, f := range forecast {
		if i == 0 || f.TempC > peak {
			peak = f.TempC
		}
		if strings.Contains(strings.ToLower(f.Description), "rain") {
			rain = true
		}
	}
	return Conditions{
		Current:         current,
		Forecast:        forecast,
		MaxForecastTemp: peak,
		HeatwaveAlert:   peak > current.TempC+HeatwaveMargin,
		RainExpected:    rain,
	}
}

// Spoilage returns the values the spoilage model needs.
func (c *Conditions) Spoilage() spoilage.Conditions {
	return spoilage.Conditions{
		TempC:           c.Current.TempC,
		MaxForecastTemp: c.MaxForecastTemp,
		HeatwaveAlert:   c.HeatwaveAlert,
	}
}
