// pkg/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/model"
)

// ReadCSV reads a comma-separated file into a raw dataset. The first row
// is the header; every cell comes in as a string, with the empty cell as
// the missing marker. The reader validates that the fixed expected
// column set is present before handing the dataset on.
func ReadCSV(path string, logger *zap.Logger) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	ds, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := ds.RequireColumns(model.RequiredColumns...); err != nil {
		return nil, fmt.Errorf("%s: input schema incomplete: %w", path, err)
	}

	logger.Info("Read raw dataset",
		zap.String("path", path),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()))

	return ds, nil
}

func readCSV(r io.Reader) (*model.Dataset, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records [][]any
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		row := make([]any, len(record))
		for i, cell := range record {
			if cell == "" {
				row[i] = nil
			} else {
				row[i] = cell
			}
		}
		records = append(records, row)
	}

	return model.FromRecords(header, records)
}
