package spoilage

// Conditions are pre-resolved weather values for a location. The caller owns
// fetching them.
type Conditions struct {
	TempC           float64
	MaxForecastTemp float64
	HeatwaveAlert   bool
}

// WeatherEstimate is an Estimate at current conditions plus, during a
// heatwave alert, the remaining hours if the forecast peak arrives.
type WeatherEstimate struct {
	Estimate
	HeatwaveAlert           bool     `json:"heatwave_alert"`
	MaxForecastTemp         float64  `json:"max_forecast_temp,omitempty"`
	ProjectedIfHeatwave     *float64 `json:"projected_if_heatwave,omitempty"`
	ProjectedRiskIfHeatwave Risk     `json:"projected_risk_if_heatwave,omitempty"`
}

// WithWeather predicts shelf life at the current temperature and projects the
// heatwave case when one is flagged.
func (m *Model) WithWeather(crop, storageMethod string, hoursElapsed float64, cond Conditions) (*WeatherEstimate, error) {
	current, err := m.RemainingShelfLife(crop, storageMethod, cond.TempC, hoursElapsed)
	if err != nil {
		return nil, err
	}

	out := &WeatherEstimate{Estimate: *current, HeatwaveAlert: cond.HeatwaveAlert}
	if !cond.HeatwaveAlert {
		return out, nil
	}

	projected, err := m.RemainingShelfLife(crop, storageMethod, cond.MaxForecastTemp, hoursElapsed)
	if err != nil {
		return nil, err
	}
	out.MaxForecastTemp = cond.MaxForecastTemp
	out.ProjectedIfHeatwave = &projected.RemainingHours
	out.ProjectedRiskIfHeatwave = projected.RiskLevel
	return out, nil
}
