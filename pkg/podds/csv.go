package podds

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

func loadCSV(path string) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	defer f.Close()

	return readCSV(path, f)
}

// readCSV parses a CSV stream with a header row
func readCSV(path string, r io.Reader) ([]Match, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fileError(path, fmt.Errorf("failed to parse CSV: %w", err))
	}
	return parseRows(path, records)
}
