package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
version: test-1
crops:
  Tomato:
    spoilage_rate_per_degree_above_35: 0.05
    storage_methods:
      Open_Floor:   {below_25: 72, 25_to_35: 36, above_35: 12}
      cold_storage: {below_25: 336, 25_to_35: 240, above_35: 168}
preservation:
  TOMATO:
    - {id: wet_jute, cost_rupees: 0, saves_rupees: 400, extra_days: 1}
soils:
  - {id: black, moisture_factor: 1.2, suitable_crops: [tomato]}
mandi_prices:
  tomato:
    - {mandi: Nagpur APMC Kalamna, price_per_kg: 22, lat: 21.1753, lng: 79.1450}
`

func TestDefault_EmbeddedDatasetIsValid(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)
	require.NotNil(t, ds)

	assert.NotEmpty(t, ds.Version)
	assert.GreaterOrEqual(t, len(ds.Crops), 10)
	assert.GreaterOrEqual(t, len(ds.Preservation), 7)
	assert.Len(t, ds.Soils, 6)
	assert.GreaterOrEqual(t, len(ds.MandiPrices), 10)
}

func TestDefault_ReturnsSharedValue(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestDefault_EveryCropHasFourMethodsAndThreeBands(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	for _, id := range ds.CropIDs() {
		c, ok := ds.Crop(id)
		require.True(t, ok)
		for _, method := range []string{"open_floor", "jute_bags", "plastic_crates", "cold_storage"} {
			sl, ok := c.ShelfLife(method)
			require.True(t, ok, "%s missing %s", id, method)
			for _, band := range []string{BandBelow25, Band25To35, BandAbove35} {
				assert.Greater(t, sl.Hours(band), 0.0, "%s/%s/%s", id, method, band)
			}
		}
		require.NotNil(t, c.DecayRate, "%s missing spoilage rate", id)
		assert.Greater(t, *c.DecayRate, 0.0)
	}
}

func TestDefault_ColdStorageOutlastsOpenFloor(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	for _, id := range ds.CropIDs() {
		c, _ := ds.Crop(id)
		cold, _ := c.ShelfLife("cold_storage")
		open, _ := c.ShelfLife(DefaultStorage)
		for _, band := range []string{BandBelow25, Band25To35, BandAbove35} {
			assert.Greater(t, cold.Hours(band), open.Hours(band), "%s/%s", id, band)
		}
	}
}

func TestDefault_PreservationCatalogs(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	for crop, methods := range ds.Preservation {
		assert.GreaterOrEqual(t, len(methods), 3, "crop %s", crop)
		for _, m := range methods {
			assert.NotEmpty(t, m.NameHI, "%s/%s", crop, m.ID)
			assert.Greater(t, len(m.InstructionsHI), 10, "%s/%s", crop, m.ID)
			assert.NotEmpty(t, m.InstructionsEN, "%s/%s", crop, m.ID)
		}
	}
}

func TestDefault_MandiBoard(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	for crop, entries := range ds.MandiPrices {
		assert.GreaterOrEqual(t, len(entries), 3, "crop %s", crop)
	}
}

func TestParse_NormalizesKeys(t *testing.T) {
	ds, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	c, ok := ds.Crop("  TOMATO ")
	require.True(t, ok)
	assert.Equal(t, "tomato", c.ID)

	sl, ok := c.ShelfLife("OPEN_FLOOR")
	require.True(t, ok)
	assert.Equal(t, 36.0, sl.Hours(Band25To35))

	assert.Len(t, ds.Methods("Tomato"), 1)
	assert.Len(t, ds.Prices("TOMATO"), 1)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("crops: [not: a: map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refdata: parse dataset")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(ds *Dataset)
		wantErr string
	}{
		{
			name:    "missing version",
			mutate:  func(ds *Dataset) { ds.Version = "" },
			wantErr: "version is required",
		},
		{
			name: "missing open_floor",
			mutate: func(ds *Dataset) {
				c := ds.Crops["tomato"]
				delete(c.Storage, DefaultStorage)
			},
			wantErr: "missing open_floor storage",
		},
		{
			name: "non-positive hours",
			mutate: func(ds *Dataset) {
				c := ds.Crops["tomato"]
				c.Storage["cold_storage"] = ShelfLife{Below25: 1, From25To35: 0, Above35: 1}
			},
			wantErr: "cold_storage/25_to_35 hours must be > 0",
		},
		{
			name: "negative decay rate",
			mutate: func(ds *Dataset) {
				c := ds.Crops["tomato"]
				rate := -1.0
				c.DecayRate = &rate
				ds.Crops["tomato"] = c
			},
			wantErr: "spoilage rate must be > 0",
		},
		{
			name: "zero decay rate",
			mutate: func(ds *Dataset) {
				c := ds.Crops["tomato"]
				rate := 0.0
				c.DecayRate = &rate
				ds.Crops["tomato"] = c
			},
			wantErr: "spoilage rate must be > 0",
		},
		{
			name: "negative preservation cost",
			mutate: func(ds *Dataset) {
				ds.Preservation["tomato"][0].CostRupees = -5
			},
			wantErr: "cost, savings and extra days must be >= 0",
		},
		{
			name: "duplicate method",
			mutate: func(ds *Dataset) {
				ds.Preservation["tomato"] = append(ds.Preservation["tomato"], PreservationMethod{ID: "WET_JUTE"})
			},
			wantErr: "duplicate method WET_JUTE",
		},
		{
			name:    "moisture factor out of range",
			mutate:  func(ds *Dataset) { ds.Soils[0].MoistureFactor = 2.0 },
			wantErr: "moisture factor 2.00 outside",
		},
		{
			name:    "non-positive price",
			mutate:  func(ds *Dataset) { ds.MandiPrices["tomato"][0].PricePerKG = 0 },
			wantErr: "price must be > 0",
		},
		{
			name:    "mandi outside India",
			mutate:  func(ds *Dataset) { ds.MandiPrices["tomato"][0].Lat = 51.5 },
			wantErr: "coordinates outside India",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Parse([]byte(minimalYAML))
			require.NoError(t, err)

			tt.mutate(ds)
			err = Validate(ds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllViolations(t *testing.T) {
	ds, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	ds.Version = ""
	ds.Soils[0].MoistureFactor = 0.1
	err = Validate(ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version is required")
	assert.Contains(t, err.Error(), "moisture factor")
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "test-1", ds.Version)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	ds, err := Load("")
	require.NoError(t, err)
	def, _ := Default()
	assert.Same(t, def, ds)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refdata: read dataset")
}

func TestSoilLookups(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	for _, id := range []string{"black", "alluvial", "red", "laterite", "sandy", "clayey"} {
		s, ok := ds.Soil(id)
		require.True(t, ok, "soil %s", id)
		assert.NotEmpty(t, s.NameHI)
		assert.NotEmpty(t, s.ColorHex)
		assert.NotEmpty(t, ds.SuitableCrops(id))
		mf := ds.MoistureFactor(id)
		assert.GreaterOrEqual(t, mf, MinMoistureFactor)
		assert.LessOrEqual(t, mf, MaxMoistureFactor)
	}

	upper, ok := ds.Soil("BLACK")
	require.True(t, ok)
	assert.Equal(t, "black", upper.ID)

	_, ok = ds.Soil("martian_soil")
	assert.False(t, ok)
	assert.Equal(t, DefaultMoistureFactor, ds.MoistureFactor("martian_soil"))
	assert.Nil(t, ds.SuitableCrops("martian_soil"))
}

func TestCropProfile_RateDefault(t *testing.T) {
	assert.Equal(t, DefaultDecayRate, CropProfile{}.Rate())
	rate := 0.07
	assert.Equal(t, 0.07, CropProfile{DecayRate: &rate}.Rate())
}

func TestShelfLife_UnknownBand(t *testing.T) {
	assert.Equal(t, 0.0, ShelfLife{Below25: 1, From25To35: 2, Above35: 3}.Hours("arctic"))
}

func TestParse_OmittedDecayRateUsesDefault(t *testing.T) {
	yaml := strings.Replace(minimalYAML, "    spoilage_rate_per_degree_above_35: 0.05\n", "", 1)
	ds, err := Parse([]byte(yaml))
	require.NoError(t, err)

	c, ok := ds.Crop("tomato")
	require.True(t, ok)
	assert.Nil(t, c.DecayRate)
	assert.Equal(t, DefaultDecayRate, c.Rate())
}

func TestParse_ZeroDecayRateRejected(t *testing.T) {
	yaml := strings.Replace(minimalYAML, "above_35: 0.05", "above_35: 0", 1)
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spoilage rate must be > 0")
}
