package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrichain/agri-advisor/internal/refdata"
)

var soilCmd = &cobra.Command{
	Use:   "soil [id]",
	Short: "Soil types, moisture factors and suitable crops",
	Long: `Without an argument lists every soil type. With a soil id shows its
properties and the crops suited to it.

Examples:
  soil
  soil black --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSoil,
}

func init() {
	addFormatFlags(soilCmd, formatTable, formatJSON, formatCSV)
	rootCmd.AddCommand(soilCmd)
}

func runSoil(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format, formatTable, formatJSON, formatCSV); err != nil {
		return err
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	soils := ds.Soils
	if len(args) == 1 {
		s, ok := ds.Soil(args[0])
		if !ok {
			return eris.Errorf("soil: unknown soil %q", args[0])
		}
		soils = []refdata.SoilType{s}
	}

	var v any = soils
	if len(args) == 1 {
		v = soils[0]
	}

	return emit(cmd, v,
		func(w io.Writer) error {
			for _, s := range soils {
				if _, err := fmt.Fprintf(w, "%-10s %-22s retention %-6s fertility %-6s moisture %.2f\n           crops: %s\n",
					s.ID, s.NameEN, s.WaterRetention, s.Fertility, s.MoistureFactor, strings.Join(s.SuitableCrops, ", ")); err != nil {
					return err
				}
			}
			return nil
		},
		[]string{"id", "name_en", "water_retention", "fertility", "moisture_factor", "suitable_crops"},
		func() [][]string {
			rows := make([][]string, 0, len(soils))
			for _, s := range soils {
				rows = append(rows, []string{
					s.ID, s.NameEN, s.WaterRetention, s.Fertility, f2(s.MoistureFactor), strings.Join(s.SuitableCrops, ";"),
				})
			}
			return rows
		},
	)
}
