// Package preservation ranks low-cost storage upgrades by return on
// investment and estimates the shelf life gained by switching.
package preservation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/refdata"
	"github.com/agrichain/agri-advisor/internal/spoilage"
)

// FreeROI is the ROI assigned to zero-cost methods so they always rank first.
const FreeROI = 9999.0

// Recommendations.
const (
	RecommendWorthIt      = "worth it"
	RecommendAlternatives = "consider alternatives"
)

// UnknownMethodError is returned when a method is not in a crop's catalog.
type UnknownMethodError struct {
	Crop   string
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("preservation: method %q not found for crop %q", e.Method, e.Crop)
}

// Option is a catalog method with its computed ROI.
type Option struct {
	refdata.PreservationMethod
	ROI float64 `json:"roi"`
}

// Benefit is the outcome of switching from the current storage to a method.
type Benefit struct {
	Crop                  string  `json:"crop"`
	CurrentMethod         string  `json:"current_method"`
	NewMethod             string  `json:"new_method"`
	CurrentRemainingHours float64 `json:"current_remaining_hours"`
	NewRemainingHours     float64 `json:"new_remaining_hours"`
	ExtraHoursGained      float64 `json:"extra_hours_gained"`
	ExtraDaysGained       float64 `json:"extra_days_gained"`
	CostRupees            float64 `json:"cost_rupees"`
	ValueSavedRupees      float64 `json:"value_saved_rupees"`
	ROI                   float64 `json:"roi"`
	Recommendation        string  `json:"recommendation"`
}

// Advisor answers preservation questions against a dataset.
type Advisor struct {
	spoilage *spoilage.Model
	data     *refdata.Dataset
}

// NewAdvisor creates an Advisor. Returns nil if either dependency is nil.
func NewAdvisor(sm *spoilage.Model, data *refdata.Dataset) *Advisor {
	if sm == nil || data == nil {
		return nil
	}
	return &Advisor{spoilage: sm, data: data}
}

// ROI returns saves/cost rounded to one decimal. Zero cost returns FreeROI;
// negative cost is a data error and returns 0.
func ROI(costRupees, savesRupees float64) float64 {
	switch {
	case costRupees == 0:
		return FreeROI
	case costRupees > 0:
		return geo.Round(savesRupees/costRupees, 1)
	default:
		return 0
	}
}

// ListMethods returns the crop's catalog minus currentStorage, best ROI
// first. Methods with equal ROI keep catalog order. Crops without a catalog
// return an empty list.
func (a *Advisor) ListMethods(crop, currentStorage string) []Option {
	catalog := a.data.Methods(crop)
	out := make([]Option, 0, len(catalog))
	for _, m := range catalog {
		if strings.EqualFold(m.ID, strings.TrimSpace(currentStorage)) {
			continue
		}
		out = append(out, Option{PreservationMethod: m, ROI: ROI(m.CostRupees, m.SavesRupees)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ROI > out[j].ROI
	})
	return out
}

// BenefitOfSwitch compares the current storage at tempC, with no time
// elapsed, to the same produce after adopting methodID.
func (a *Advisor) BenefitOfSwitch(crop, methodID, currentStorage string, tempC float64) (*Benefit, error) {
	baseline, err := a.spoilage.RemainingShelfLife(crop, currentStorage, tempC, 0)
	if err != nil {
		return nil, err
	}

	method, ok := a.lookup(crop, methodID)
	if !ok {
		return nil, &UnknownMethodError{Crop: crop, Method: methodID}
	}

	extraHours := method.ExtraDays * 24
	roi := ROI(method.CostRupees, method.SavesRupees)

	rec := RecommendAlternatives
	if roi > 1 {
		rec = RecommendWorthIt
	}

	return &Benefit{
		Crop:                  crop,
		CurrentMethod:         currentStorage,
		NewMethod:             method.ID,
		CurrentRemainingHours: baseline.RemainingHours,
		NewRemainingHours:     geo.Round(baseline.RemainingHours+extraHours, 1),
		ExtraHoursGained:      geo.Round(extraHours, 1),
		ExtraDaysGained:       method.ExtraDays,
		CostRupees:            method.CostRupees,
		ValueSavedRupees:      method.SavesRupees,
		ROI:                   roi,
		Recommendation:        rec,
	}, nil
}

func (a *Advisor) lookup(crop, methodID string) (refdata.PreservationMethod, bool) {
	id := strings.TrimSpace(methodID)
	for _, m := range a.data.Methods(crop) {
		if strings.EqualFold(m.ID, id) {
			return m, true
		}
	}
	return refdata.PreservationMethod{}, false
}
