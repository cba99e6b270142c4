package market

import (
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/agrichain/agri-advisor/internal/geo"
)

// RankingSheet is the sheet name written by WriteXLSX.
const RankingSheet = "Ranking"

var rankingHeader = []string{
	"Rank", "Market", "Distance (km)", "Reach", "Price (₹/kg)", "Fuel (₹)",
	"Transit loss (%)", "Loss (₹)", "Sold (kg)", "Gross (₹)", "Pocket cash (₹)", "Risk",
}

// WriteXLSX writes ranked evaluations as a single-sheet workbook.
func WriteXLSX(w io.Writer, evals []Evaluation) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(RankingSheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range rankingHeader {
		header.AddCell().SetString(h)
	}

	for i, e := range evals {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(e.MarketName)
		row.AddCell().SetFloat(e.DistanceKM)
		row.AddCell().SetString(e.Reach)
		row.AddCell().SetFloat(e.PricePerKG)
		row.AddCell().SetFloat(e.FuelCost)
		row.AddCell().SetFloat(e.SpoilagePct)
		row.AddCell().SetFloat(e.SpoilageLossRupees)
		row.AddCell().SetFloat(e.EffectiveVolumeKG)
		row.AddCell().SetFloat(e.GrossRevenue)
		row.AddCell().SetFloat(e.PocketCash)
		row.AddCell().SetString(string(e.RiskLevel))
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

// ReadQuotesXLSX reads quotes from the first sheet of a workbook. The first
// row is a header; columns are market name, price per kg, lat and lng.
// Blank rows are skipped.
func ReadQuotesXLSX(path string) ([]Quote, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("xlsx: workbook has no sheets")
	}

	var quotes []Quote
	for i, row := range f.Sheets[0].Rows {
		if i == 0 || row == nil {
			continue
		}
		cells := rowToStrings(row)
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}
		q, err := quoteFromCells(cells)
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: row %d", i+1)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func quoteFromCells(cells []string) (Quote, error) {
	if len(cells) < 4 {
		return Quote{}, eris.Errorf("expected 4 columns, got %d", len(cells))
	}
	nums := make([]float64, 3)
	for j := range nums {
		v, err := strconv.ParseFloat(strings.TrimSpace(cells[j+1]), 64)
		if err != nil {
			return Quote{}, eris.Wrapf(err, "column %d", j+2)
		}
		nums[j] = v
	}
	if nums[0] <= 0 {
		return Quote{}, eris.Errorf("price must be positive, got %v", nums[0])
	}
	return Quote{
		MarketName: strings.TrimSpace(cells[0]),
		PricePerKG: nums[0],
		Coordinate: geo.Coordinate{Lat: nums[1], Lng: nums[2]},
	}, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
