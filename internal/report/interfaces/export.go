package interfaces

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	report "energy-report/internal/report/domain"
	telemetry "energy-report/internal/telemetry/domain"
	"energy-report/internal/telemetry/infrastructure/csvfile"
)

const (
	dataSheet    = "data"
	summarySheet = "summary"
)

// SummaryLines returns the human readable figures of a summary.
func SummaryLines(s *report.Summary) []string {
	return []string{
		fmt.Sprintf("Source: %s", s.SourceFile),
		fmt.Sprintf("Samples: %d (%s to %s)", s.Samples, s.FirstAt.Format(csvfile.OutputTimeLayout), s.LastAt.Format(csvfile.OutputTimeLayout)),
		fmt.Sprintf("Max Power: %.2f W at %s", s.MaxPowerW, s.MaxAt.Format(tickLayout)),
		fmt.Sprintf("Min Power: %.2f W at %s", s.MinPowerW, s.MinAt.Format(tickLayout)),
		fmt.Sprintf("Mean Power: %.2f W", s.MeanPowerW),
		fmt.Sprintf("Total Energy Consumption: %.2f kWh", s.TotalKWh),
		fmt.Sprintf("Total Cost (24 hour cycle): %s%.2f", s.Currency, s.CostAmount),
		fmt.Sprintf("Rate: %s%.2f per kWh", s.Currency, s.PricePerKWh),
		fmt.Sprintf("Irregular intervals: %d", s.IrregularIntervals),
	}
}

// WriteSummaryPDF renders a one page house report with both charts.
func WriteSummaryPDF(path string, s *report.Summary) error {
	if err := s.Validate(); err != nil {
		return err
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, fmt.Sprintf("%s Energy Report", report.DisplayName(s.HouseID)))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	for _, line := range SummaryLines(s) {
		pdf.Cell(0, 6, line)
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", s.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	for _, chart := range []string{s.Artifacts.PowerChart, s.Artifacts.EnergyChart} {
		if chart == "" {
			continue
		}
		if _, err := os.Stat(chart); err != nil {
			return fmt.Errorf("summary pdf: %w", err)
		}
		pdf.ImageOptions(chart, 10, pdf.GetY(), 190, 0, true, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
		pdf.Ln(4)
	}

	return pdf.OutputFileAndClose(path)
}

// WriteAppendedXLSX writes the augmented table and the summary as a workbook.
func WriteAppendedXLSX(path string, table *telemetry.Table, column string, values []float64, s *report.Summary) error {
	rows, err := csvfile.AppendedRows(table, column, values)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", dataSheet)
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = xlsxValue(i, j, cell)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(dataSheet, axis, &cells); err != nil {
			return err
		}
	}

	_ = f.SetCellValue(summarySheet, "A1", fmt.Sprintf("%s Energy Report", report.DisplayName(s.HouseID)))
	summaryRows := [][2]interface{}{
		{"House", s.HouseID},
		{"Source", s.SourceFile},
		{"Samples", s.Samples},
		{"Max Power (W)", s.MaxPowerW},
		{"Max At", s.MaxAt.Format(csvfile.OutputTimeLayout)},
		{"Min Power (W)", s.MinPowerW},
		{"Min At", s.MinAt.Format(csvfile.OutputTimeLayout)},
		{"Mean Power (W)", s.MeanPowerW},
		{"Total Energy (kWh)", s.TotalKWh},
		{"Price per kWh", s.PricePerKWh},
		{"Total Cost", s.CostAmount},
		{"Currency", s.Currency},
		{"Irregular Intervals", s.IrregularIntervals},
	}
	for i, pair := range summaryRows {
		row := i + 3
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), pair[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), pair[1])
	}

	return f.SaveAs(path)
}

// xlsxValue keeps the header and index as text and types numeric cells.
func xlsxValue(row, col int, cell string) interface{} {
	if row == 0 || col == 0 {
		return cell
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
		return v
	}
	return cell
}

// FileExporter writes report artifacts to the local filesystem.
type FileExporter struct{}

// WriteAppendedCSV writes the augmented table as CSV.
func (FileExporter) WriteAppendedCSV(path string, table *telemetry.Table, column string, values []float64) error {
	return csvfile.WriteAppendedFile(path, table, column, values)
}

// WriteAppendedXLSX writes the augmented table as a workbook.
func (FileExporter) WriteAppendedXLSX(path string, table *telemetry.Table, column string, values []float64, s *report.Summary) error {
	return WriteAppendedXLSX(path, table, column, values, s)
}

// WriteSummaryPDF writes the one page summary.
func (FileExporter) WriteSummaryPDF(path string, s *report.Summary) error {
	return WriteSummaryPDF(path, s)
}
