package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	telemetry "energy-report/internal/telemetry/domain"
)

// AppendedRows returns header and rows of table with an extra column.
// The index column carries the shifted timestamp; other cells are kept verbatim.
func AppendedRows(table *telemetry.Table, column string, values []float64) ([][]string, error) {
	if table == nil {
		return nil, telemetry.ErrNoData
	}
	if len(values) != table.Len() {
		return nil, fmt.Errorf("%w: %d rows, %d values", telemetry.ErrRowLength, table.Len(), len(values))
	}

	out := make([][]string, 0, table.Len()+1)
	header := make([]string, 0, len(table.Header)+1)
	header = append(header, table.Header...)
	out = append(out, append(header, column))
	for i, row := range table.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, row...)
		record[0] = table.Index[i].Format(OutputTimeLayout)
		record = append(record, strconv.FormatFloat(values[i], 'f', -1, 64))
		out = append(out, record)
	}
	return out, nil
}

// WriteAppended writes the augmented table as CSV.
func WriteAppended(w io.Writer, table *telemetry.Table, column string, values []float64) error {
	rows, err := AppendedRows(table, column, values)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}

// WriteAppendedFile writes the augmented table to path.
func WriteAppendedFile(path string, table *telemetry.Table, column string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteAppended(f, table, column, values); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
