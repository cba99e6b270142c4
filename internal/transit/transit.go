// Package transit estimates produce lost on the road to market.
package transit

import (
	"math"

	"go.uber.org/zap"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/refdata"
	"github.com/agrichain/agri-advisor/internal/spoilage"
)

const (
	// DefaultPct is returned for crops with no shelf-life data.
	DefaultPct = 5.0

	// MaxPct caps transit loss.
	MaxPct = 50.0
)

// Model estimates transit spoilage. Produce is always treated as unshielded
// (open_floor) while on the road, whatever its storage before loading.
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

// SpoilagePct returns the percentage of a load expected to spoil over
// distanceKM at tempC. Heat decay is not applied; the band table alone sets
// the safe window. A non-positive speed uses geo.DefaultAvgSpeedKMH.
func (m *Model) SpoilagePct(distanceKM float64, crop string, tempC, avgSpeedKMH float64) float64 {
	profile, ok := m.data.Crop(crop)
	if !ok {
		zap.L().Debug("transit: unknown crop, using default loss",
			zap.String("crop", crop),
			zap.Float64("pct", DefaultPct),
		)
		return DefaultPct
	}

	table, _ := profile.ShelfLife(spoilage.DefaultStorage)
	safeHours := table.Hours(string(spoilage.BandFor(tempC)))
	if safeHours <= 0 {
		return MaxPct
	}

	if avgSpeedKMH <= 0 {
		avgSpeedKMH = geo.DefaultAvgSpeedKMH
	}
	transitHours := distanceKM / avgSpeedKMH

	return math.Min(geo.Round(100*transitHours/safeHours, 1), MaxPct)
}
