// Package spoilage predicts remaining shelf life for harvested produce from
// crop, storage method, temperature and time since harvest.
package spoilage

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/refdata"
)

// TempBand is a discretized temperature range indexing shelf-life tables.
type TempBand string

// Temperature bands.
const (
	BandBelow25 TempBand = refdata.BandBelow25
	Band25To35  TempBand = refdata.Band25To35
	BandAbove35 TempBand = refdata.BandAbove35
)

// Band thresholds (°C). 35 itself belongs to the middle band.
const (
	coolThreshold = 25.0
	heatThreshold = 35.0
)

// DefaultStorage is used when a storage method has no shelf-life table.
const DefaultStorage = refdata.DefaultStorage

// minSafeHours is the floor applied after heat decay.
const minSafeHours = 1.0

// Risk is the urgency tier of an estimate.
type Risk string

// Risk tiers.
const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Color is the traffic-light color paired with a Risk.
type Color string

// Colors.
const (
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// Remaining-hours tier boundaries. Exactly 48 is medium, exactly 12 is high.
const (
	lowRiskAbove    = 48.0
	mediumRiskAbove = 12.0
)

// UnknownCropError is returned when a crop has no shelf-life data.
type UnknownCropError struct {
	Crop string
}

func (e *UnknownCropError) Error() string {
	return fmt.Sprintf("spoilage: crop not found: %s", e.Crop)
}

// Estimate is a derived shelf-life prediction.
type Estimate struct {
	Crop           string   `json:"crop"`
	StorageMethod  string   `json:"storage_method"`
	TempC          float64  `json:"temp_c"`
	TempBand       TempBand `json:"temp_band"`
	TotalSafeHours float64  `json:"total_safe_hours"`
	HoursElapsed   float64  `json:"hours_since_harvest"`
	RemainingHours float64  `json:"remaining_hours"`
	RemainingDays  float64  `json:"remaining_days"`
	SpoilagePct    float64  `json:"spoilage_pct"`
	RiskLevel      Risk     `json:"risk_level"`
	Color          Color    `json:"color"`
}

// Model computes estimates against a reference dataset. It holds no mutable
// state and is safe for concurrent use.
type Model struct {
	data *refdata.Dataset
}

// NewModel creates a Model. Returns nil if data is nil.
func NewModel(data *refdata.Dataset) *Model {
	if data == nil {
		return nil
	}
	return &Model{data: data}
}

// BandFor classifies a temperature into its band.
func BandFor(tempC float64) TempBand {
	switch {
	case tempC < coolThreshold:
		return BandBelow25
	case tempC <= heatThreshold:
		return Band25To35
	default:
		return BandAbove35
	}
}

// RiskFor maps remaining hours to a risk tier and color.
func RiskFor(remainingHours float64) (Risk, Color) {
	switch {
	case remainingHours > lowRiskAbove:
		return RiskLow, ColorGreen
	case remainingHours > mediumRiskAbove:
		return RiskMedium, ColorYellow
	default:
		return RiskHigh, ColorRed
	}
}

// HeatAdjusted applies the heat-decay curve to base hours. At or below 35°C
// the base is returned unchanged; above it the hours shrink linearly by rate
// per degree and never drop below one hour.
func HeatAdjusted(baseHours, tempC, rate float64) float64 {
	if tempC <= heatThreshold {
		return baseHours
	}
	factor := 1 - rate*(tempC-heatThreshold)
	return math.Max(baseHours*factor, minSafeHours)
}

// RemainingShelfLife predicts the remaining safe hours for a crop. Unknown
// storage methods fall back to open_floor; unknown crops return
// *UnknownCropError.
func (m *Model) RemainingShelfLife(crop, storageMethod string, tempC, hoursElapsed float64) (*Estimate, error) {
	profile, ok := m.data.Crop(crop)
	if !ok {
		return nil, &UnknownCropError{Crop: crop}
	}

	table, ok := profile.ShelfLife(storageMethod)
	if !ok {
		zap.L().Debug("spoilage: unknown storage method, using default",
			zap.String("crop", profile.ID),
			zap.String("storage_method", storageMethod),
		)
		storageMethod = DefaultStorage
		table, _ = profile.ShelfLife(storageMethod)
	}

	band := BandFor(tempC)
	baseHours := HeatAdjusted(table.Hours(string(band)), tempC, profile.Rate())
	remaining := math.Max(0, baseHours-hoursElapsed)

	var pct float64
	if baseHours > 0 {
		pct = math.Min(100, math.Max(0, (baseHours-remaining)/baseHours*100))
	}

	risk, color := RiskFor(remaining)

	return &Estimate{
		Crop:           crop,
		StorageMethod:  storageMethod,
		TempC:          tempC,
		TempBand:       band,
		TotalSafeHours: geo.Round(baseHours, 1),
		HoursElapsed:   hoursElapsed,
		RemainingHours: geo.Round(remaining, 1),
		RemainingDays:  geo.Round(remaining/24, 1),
		SpoilagePct:    geo.Round(pct, 1),
		RiskLevel:      risk,
		Color:          color,
	}, nil
}
