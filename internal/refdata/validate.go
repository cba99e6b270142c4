package refdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Moisture factor bounds accepted for soils.
const (
	MinMoistureFactor = 0.3
	MaxMoistureFactor = 1.5
)

// India bounding box for mandi coordinates.
const (
	minLat, maxLat = 8.0, 37.0
	minLng, maxLng = 68.0, 97.0
)

// Validate checks that a Dataset satisfies the invariants the models rely on.
// All violations are reported together.
func Validate(ds *Dataset) error {
	var errs []string

	if ds.Version == "" {
		errs = append(errs, "version is required")
	}
	if len(ds.Crops) == 0 {
		errs = append(errs, "at least one crop is required")
	}

	for _, id := range sortedKeys(ds.Crops) {
		c := ds.Crops[id]
		if c.DecayRate != nil && *c.DecayRate <= 0 {
			errs = append(errs, fmt.Sprintf("crop %s: spoilage rate must be > 0", id))
		}
		if _, ok := c.Storage[DefaultStorage]; !ok {
			errs = append(errs, fmt.Sprintf("crop %s: missing %s storage", id, DefaultStorage))
		}
		for _, method := range sortedKeys(c.Storage) {
			sl := c.Storage[method]
			for _, band := range []string{BandBelow25, Band25To35, BandAbove35} {
				if sl.Hours(band) <= 0 {
					errs = append(errs, fmt.Sprintf("crop %s: %s/%s hours must be > 0", id, method, band))
				}
			}
		}
	}

	for _, crop := range sortedKeys(ds.Preservation) {
		seen := make(map[string]bool)
		for _, m := range ds.Preservation[crop] {
			key := strings.ToLower(m.ID)
			switch {
			case m.ID == "":
				errs = append(errs, fmt.Sprintf("preservation %s: method id is required", crop))
			case seen[key]:
				errs = append(errs, fmt.Sprintf("preservation %s: duplicate method %s", crop, m.ID))
			}
			seen[key] = true
			if m.CostRupees < 0 || m.SavesRupees < 0 || m.ExtraDays < 0 {
				errs = append(errs, fmt.Sprintf("preservation %s/%s: cost, savings and extra days must be >= 0", crop, m.ID))
			}
		}
	}

	for _, s := range ds.Soils {
		if s.ID == "" {
			errs = append(errs, "soil id is required")
		}
		if s.MoistureFactor < MinMoistureFactor || s.MoistureFactor > MaxMoistureFactor {
			errs = append(errs, fmt.Sprintf("soil %s: moisture factor %.2f outside [%.1f, %.1f]",
				s.ID, s.MoistureFactor, MinMoistureFactor, MaxMoistureFactor))
		}
	}

	for _, crop := range sortedKeys(ds.MandiPrices) {
		for _, p := range ds.MandiPrices[crop] {
			if p.PricePerKG <= 0 {
				errs = append(errs, fmt.Sprintf("mandi %s/%s: price must be > 0", crop, p.Mandi))
			}
			if p.Lat < minLat || p.Lat > maxLat || p.Lng < minLng || p.Lng > maxLng {
				errs = append(errs, fmt.Sprintf("mandi %s/%s: coordinates outside India", crop, p.Mandi))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("refdata: dataset validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
