package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agrichain/agri-advisor/internal/geo"
	"github.com/agrichain/agri-advisor/internal/weather"
)

// Output formats.
const (
	formatTable   = "table"
	formatJSON    = "json"
	formatCSV     = "csv"
	formatGeoJSON = "geojson"
	formatXLSX    = "xlsx"
)

var titleCaser = cases.Title(language.English)

// display turns an identifier such as "plastic_crates" into "Plastic Crates".
func display(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return eris.Errorf("--format must be one of %s (got %q)", strings.Join(allowed, ", "), format)
}

func addFormatFlags(cmd *cobra.Command, formats ...string) {
	cmd.Flags().String("format", formatTable, "output format: "+strings.Join(formats, ", "))
	cmd.Flags().String("output", "", "output file path (default: stdout)")
}

// openOutput returns the --output file, or the command's stdout when unset.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

// closeOutput runs closeFn and reports its error unless *err is already set.
func closeOutput(closeFn func() error, err *error) {
	if cerr := closeFn(); cerr != nil && *err == nil {
		*err = eris.Wrap(cerr, "close output file")
	}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// emit writes v in the chosen format. table and csv are rendered by the
// caller-supplied functions.
func emit(cmd *cobra.Command, v any, table func(io.Writer) error, header []string, rows func() [][]string) (err error) {
	format, _ := cmd.Flags().GetString("format")

	w, closeFn, err := openOutput(cmd)
	if err != nil {
		return err
	}
	defer closeOutput(closeFn, &err)

	switch format {
	case formatJSON:
		return writeJSON(w, v)
	case formatCSV:
		return writeCSV(w, header, rows())
	case formatTable:
		return table(w)
	default:
		return eris.Errorf("unsupported format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "write JSON")
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "write CSV header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return eris.Wrap(err, "write CSV rows")
	}
	return nil
}

func f1(v float64) string { return fmt.Sprintf("%.1f", v) }
func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

// addOriginFlags registers --lat/--lng for the farm location.
func addOriginFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("lat", 0, "farm latitude")
	cmd.Flags().Float64("lng", 0, "farm longitude")
}

func originFrom(cmd *cobra.Command) (geo.Coordinate, bool) {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	ok := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")
	return geo.Coordinate{Lat: lat, Lng: lng}, ok
}

// addTempFlag registers --temp, which skips the weather lookup.
func addTempFlag(cmd *cobra.Command) {
	cmd.Flags().Float64("temp", 0, "temperature in °C (skips the weather lookup)")
}

// newWeatherClient builds the weather client from config.
func newWeatherClient() weather.Client {
	w := cfg.Weather
	return weather.NewClient(
		weather.WithAPIKey(w.APIKey),
		weather.WithBaseURL(w.BaseURL),
		weather.WithHTTPClient(w.HTTPClient()),
		weather.WithRateLimit(w.RatePerSec),
		weather.WithRetry(w.RetryPolicy()),
	)
}

// resolveConditions returns the weather for the farm. --temp overrides the
// lookup. Without --lat/--lng, or when the provider fails, the fallback
// snapshot is used and a warning logged.
func resolveConditions(ctx context.Context, cmd *cobra.Command) *weather.Conditions {
	if cmd.Flags().Changed("temp") {
		t, _ := cmd.Flags().GetFloat64("temp")
		snap := weather.Fallback()
		snap.TempC = t
		snap.Description = "provided"
		snap.IsFallback = false
		cond := weather.Summarize(snap, nil)
		return &cond
	}

	at, ok := originFrom(cmd)
	if !ok {
		zap.L().Warn("no --temp or --lat/--lng given, using fallback weather")
		cond := weather.Summarize(weather.Fallback(), weather.FallbackForecast())
		return &cond
	}

	cond, err := newWeatherClient().Conditions(ctx, at)
	if err != nil {
		zap.L().Warn("weather lookup failed, using fallback weather", zap.Error(err))
		fb := weather.Summarize(weather.Fallback(), weather.FallbackForecast())
		return &fb
	}
	return cond
}
