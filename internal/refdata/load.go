package refdata

import (
	_ "embed"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data/dataset.yaml
var embedded []byte

var (
	defaultOnce sync.Once
	defaultData *Dataset
	defaultErr  error
)

// Default returns the embedded dataset, parsed and validated on first use.
// Every caller shares the same read-only value.
func Default() (*Dataset, error) {
	defaultOnce.Do(func() {
		defaultData, defaultErr = Parse(embedded)
	})
	return defaultData, defaultErr
}

// Load reads a dataset from a YAML file. An empty path returns Default.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: read dataset %s", path)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, err
	}
	zap.L().Info("refdata: loaded dataset",
		zap.String("path", path),
		zap.String("version", ds.Version),
		zap.Int("crops", len(ds.Crops)),
	)
	return ds, nil
}

// Parse decodes, normalizes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, eris.Wrap(err, "refdata: parse dataset")
	}
	normalizeKeys(&ds)
	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// normalizeKeys lowercases every lookup key so lookups are case-insensitive.
func normalizeKeys(ds *Dataset) {
	crops := make(map[string]CropProfile, len(ds.Crops))
	for id, c := range ds.Crops {
		key := normalize(id)
		c.ID = key
		storage := make(map[string]ShelfLife, len(c.Storage))
		for method, sl := range c.Storage {
			storage[normalize(method)] = sl
		}
		c.Storage = storage
		crops[key] = c
	}
	ds.Crops = crops

	preservation := make(map[string][]PreservationMethod, len(ds.Preservation))
	for crop, methods := range ds.Preservation {
		preservation[normalize(crop)] = methods
	}
	ds.Preservation = preservation

	prices := make(map[string][]MandiPrice, len(ds.MandiPrices))
	for crop, entries := range ds.MandiPrices {
		prices[normalize(crop)] = entries
	}
	ds.MandiPrices = prices
}
