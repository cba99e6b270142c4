// Package refdata holds the read-only post-harvest reference dataset: crop
// shelf-life tables, preservation catalogs, soil properties and the static
// mandi price board.
package refdata

import (
	"sort"
	"strings"
)

// Temperature band keys used by shelf-life tables.
const (
	BandBelow25 = "below_25"
	Band25To35  = "25_to_35"
	BandAbove35 = "above_35"
)

// DefaultStorage is the storage method every crop must define and the
// fallback for unknown methods.
const DefaultStorage = "open_floor"

// DefaultDecayRate is the fractional shelf-life loss per degree above 35°C
// when a crop does not set its own.
const DefaultDecayRate = 0.05

// DefaultMoistureFactor is returned for soils missing from the dataset.
const DefaultMoistureFactor = 1.0

// Dataset is the full reference dataset. It is never mutated after Parse.
type Dataset struct {
	Version      string                          `yaml:"version"`
	Crops        map[string]CropProfile          `yaml:"crops"`
	Preservation map[string][]PreservationMethod `yaml:"preservation"`
	Soils        []SoilType                      `yaml:"soils"`
	MandiPrices  map[string][]MandiPrice         `yaml:"mandi_prices"`
}

// CropProfile holds shelf-life tables for one crop.
type CropProfile struct {
	ID        string               `yaml:"-"`
	NameEN    string               `yaml:"name_en"`
	NameHI    string               `yaml:"name_hi"`
	DecayRate *float64             `yaml:"spoilage_rate_per_degree_above_35"`
	Storage   map[string]ShelfLife `yaml:"storage_methods"`
}

// ShelfLife is the safe hours before spoilage per temperature band.
type ShelfLife struct {
	Below25    float64 `yaml:"below_25"`
	From25To35 float64 `yaml:"25_to_35"`
	Above35    float64 `yaml:"above_35"`
}

// Hours returns the safe hours for a band key. Unknown bands return 0.
func (s ShelfLife) Hours(band string) float64 {
	switch band {
	case BandBelow25:
		return s.Below25
	case Band25To35:
		return s.From25To35
	case BandAbove35:
		return s.Above35
	default:
		return 0
	}
}

// Rate returns the crop's heat decay rate, or DefaultDecayRate when the
// dataset omits it.
func (c CropProfile) Rate() float64 {
	if c.DecayRate != nil {
		return *c.DecayRate
	}
	return DefaultDecayRate
}

// ShelfLife returns the table for a storage method.
func (c CropProfile) ShelfLife(method string) (ShelfLife, bool) {
	s, ok := c.Storage[normalize(method)]
	return s, ok
}

// PreservationMethod is one catalog entry for upgrading storage.
type PreservationMethod struct {
	ID             string  `yaml:"id" json:"id"`
	NameEN         string  `yaml:"name_en" json:"name_en"`
	NameHI         string  `yaml:"name_hi" json:"name_hi"`
	CostRupees     float64 `yaml:"cost_rupees" json:"cost_rupees"`
	SavesRupees    float64 `yaml:"saves_rupees" json:"saves_rupees"`
	ExtraDays      float64 `yaml:"extra_days" json:"extra_days"`
	InstructionsEN string  `yaml:"instructions_en" json:"instructions_en"`
	InstructionsHI string  `yaml:"instructions_hi" json:"instructions_hi"`
}

// SoilType holds soil properties relevant to harvest readiness.
type SoilType struct {
	ID             string   `yaml:"id" json:"id"`
	NameEN         string   `yaml:"name_en" json:"name_en"`
	NameHI         string   `yaml:"name_hi" json:"name_hi"`
	WaterRetention string   `yaml:"water_retention" json:"water_retention"`
	Fertility      string   `yaml:"fertility" json:"fertility"`
	SuitableCrops  []string `yaml:"suitable_crops" json:"suitable_crops"`
	MoistureFactor float64  `yaml:"moisture_factor" json:"moisture_factor"`
	ColorHex       string   `yaml:"color_hex" json:"color_hex"`
}

// MandiPrice is one entry on the static mandi price board.
type MandiPrice struct {
	Mandi      string  `yaml:"mandi" json:"mandi"`
	PricePerKG float64 `yaml:"price_per_kg" json:"price_per_kg"`
	Lat        float64 `yaml:"lat" json:"lat"`
	Lng        float64 `yaml:"lng" json:"lng"`
}

// Crop returns the profile for a crop id (case-insensitive).
func (d *Dataset) Crop(id string) (CropProfile, bool) {
	c, ok := d.Crops[normalize(id)]
	return c, ok
}

// CropIDs returns all crop ids in sorted order.
func (d *Dataset) CropIDs() []string {
	ids := make([]string, 0, len(d.Crops))
	for id := range d.Crops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Methods returns the preservation catalog for a crop. The returned slice
// must not be modified.
func (d *Dataset) Methods(crop string) []PreservationMethod {
	return d.Preservation[normalize(crop)]
}

// Soil returns the properties for a soil id (case-insensitive).
func (d *Dataset) Soil(id string) (SoilType, bool) {
	key := normalize(id)
	for _, s := range d.Soils {
		if strings.ToLower(s.ID) == key {
			return s, true
		}
	}
	return SoilType{}, false
}

// MoistureFactor returns the soil moisture factor, or DefaultMoistureFactor
// for unknown soils.
func (d *Dataset) MoistureFactor(soilID string) float64 {
	if s, ok := d.Soil(soilID); ok {
		return s.MoistureFactor
	}
	return DefaultMoistureFactor
}

// SuitableCrops returns the crops suited to a soil, or nil for unknown soils.
func (d *Dataset) SuitableCrops(soilID string) []string {
	if s, ok := d.Soil(soilID); ok {
		return s.SuitableCrops
	}
	return nil
}

// Prices returns the mandi price board entries for a crop.
func (d *Dataset) Prices(crop string) []MandiPrice {
	return d.MandiPrices[normalize(crop)]
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
