package report

import (
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	PowerChartName  = "power_max_min.png"
	EnergyChartName = "energy_consumption.png"
	SummaryPDFName  = "summary.pdf"

	appendedSuffix = "_appended"
	sourceExt      = ".csv"
)

// Artifacts are the files written for one house.
type Artifacts struct {
	Dir          string
	PowerChart   string
	EnergyChart  string
	AppendedCSV  string
	AppendedXLSX string
	SummaryPDF   string
}

// HouseID derives the house id from a source file name.
func HouseID(fileName string) string {
	return strings.TrimSuffix(fileName, sourceExt)
}

// ArtifactsFor lays out the output files of fileName under outRoot.
func ArtifactsFor(outRoot, fileName string) Artifacts {
	house := HouseID(fileName)
	dir := filepath.Join(outRoot, house)
	return Artifacts{
		Dir:          dir,
		PowerChart:   filepath.Join(dir, PowerChartName),
		EnergyChart:  filepath.Join(dir, EnergyChartName),
		AppendedCSV:  filepath.Join(dir, house+appendedSuffix+".csv"),
		AppendedXLSX: filepath.Join(dir, house+appendedSuffix+".xlsx"),
		SummaryPDF:   filepath.Join(dir, SummaryPDFName),
	}
}

// DisplayName turns "house_0" into "House 0" for chart titles.
func DisplayName(houseID string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(houseID)
	first, size := utf8.DecodeRuneInString(name)
	if size == 0 || first == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(first)) + name[size:]
}

// Summary is the per-house outcome of a report run.
type Summary struct {
	HouseID            string
	SourceFile         string
	Samples            int
	FirstAt            time.Time
	LastAt             time.Time
	MaxPowerW          float64
	MaxAt              time.Time
	MinPowerW          float64
	MinAt              time.Time
	MeanPowerW         float64
	TotalKWh           float64
	PricePerKWh        float64
	CostAmount         float64
	Currency           string
	IrregularIntervals int
	Artifacts          Artifacts
	GeneratedAt        time.Time
}

// Validate checks the identity fields.
func (s *Summary) Validate() error {
	if s == nil {
		return ErrNilSummary
	}
	if s.HouseID == "" {
		return ErrEmptyHouseID
	}
	return nil
}

// SummaryRepository persists report summaries.
type SummaryRepository interface {
	Save(ctx context.Context, summary *Summary) error
	Get(ctx context.Context, houseID string) (*Summary, error)
}

// Outcomes of one input file, as reported to observers.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// FileResult records the outcome of one input file.
type FileResult struct {
	File    string
	Summary *Summary
	Err     error
}
