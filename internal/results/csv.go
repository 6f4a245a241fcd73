package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// mergedHeader is the schema of the combined CSV the harness emits.
var mergedHeader = []string{"engine", "benchmark", "dataset", "codec", "metric", "value"}

// ParseRunCSV reads a per-run CSV as emitted by the Lucene benchmark
// jar: one `codec,metric,value` record per line, no header. Engine,
// benchmark type and dataset are implied by the invocation and passed in.
func ParseRunCSV(r io.Reader, engine, benchType, dataset string) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse benchmark CSV: %w", err)
		}

		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q in benchmark CSV: %w", record[2], err)
		}

		rows = append(rows, Row{
			Engine:    engine,
			BenchType: benchType,
			Dataset:   dataset,
			Codec:     record[0],
			Metric:    record[1],
			Value:     value,
		})
	}
	return rows, nil
}

// WriteMergedCSV emits rows as one combined CSV with a header, for
// plotting and spreadsheet use downstream.
func WriteMergedCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(mergedHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Engine,
			row.BenchType,
			row.Dataset,
			row.Codec,
			row.Metric,
			strconv.FormatFloat(row.Value, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
