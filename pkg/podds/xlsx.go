package podds

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// loadXLSX reads a worksheet with raw cell values so probabilities keep
// their full precision and dates come through as serial numbers
func loadXLSX(path, sheet string) ([]Match, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fileError(path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fileError(path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fileError(path, fmt.Errorf("workbook has no sheets"))
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fileError(path, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", ")))
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fileError(path, fmt.Errorf("failed to read sheet %s: %w", sheet, err))
	}
	if err := normaliseExcelDates(path, rows); err != nil {
		return nil, err
	}
	return parseRows(path, rows)
}

// normaliseExcelDates rewrites serial dates in the match_date column as text
func normaliseExcelDates(path string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	col := -1
	for i, h := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(h), "match_date") {
			col = i
			break
		}
	}
	if col < 0 {
		return nil
	}

	for r := 1; r < len(rows); r++ {
		if col >= len(rows[r]) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(rows[r][col]), 64)
		if err != nil {
			continue
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return &FileError{Path: path, Row: r + 1, Column: "match_date", Err: err}
		}
		// Serial fractions rarely land on a whole second
		t = t.Round(time.Second)
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			rows[r][col] = t.Format(DateLayout)
		} else {
			rows[r][col] = t.Format(DateLayout + " 15:04:05")
		}
	}
	return nil
}
