package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrichain/agri-advisor/internal/refdata"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Reference dataset utilities",
}

var dataValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate a reference dataset",
	Long: `Parses a dataset YAML file and checks every invariant the models rely on.
Without --path the configured (or built-in) dataset is checked.

Example:
  data validate --path ./my-dataset.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("path")

		var (
			ds  *refdata.Dataset
			err error
		)
		if path != "" {
			ds, err = refdata.Load(path)
		} else {
			ds, err = loadDataset()
		}
		if err != nil {
			return err
		}

		methods := 0
		for _, m := range ds.Preservation {
			methods += len(m)
		}
		quotes := 0
		for _, q := range ds.MandiPrices {
			quotes += len(q)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"dataset %s OK: %d crops, %d preservation methods, %d soils, %d mandi quotes\n",
			ds.Version, len(ds.Crops), methods, len(ds.Soils), quotes)
		return err
	},
}

func init() {
	dataValidateCmd.Flags().String("path", "", "dataset YAML file (default: refdata.path or built-in)")
	dataCmd.AddCommand(dataValidateCmd)
	rootCmd.AddCommand(dataCmd)
}
