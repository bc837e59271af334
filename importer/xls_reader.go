package importer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/extrame/xls"
)

// formulaPlaceholder is what extrame/xls returns for formula cells.
const formulaPlaceholder = "FormulaCol"

// XLSReader decodes legacy BIFF workbooks produced by older biometric terminals.
type XLSReader struct {
	Charset string
}

func (r *XLSReader) Read(data []byte) (Grid, error) {
	charset := r.Charset
	if charset == "" {
		charset = "utf-8"
	}

	book, err := xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, fmt.Errorf("open xls workbook: %w", err)
	}
	sheet := book.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("xls workbook has no sheets")
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		values := make([]string, row.LastCol())
		for j := range values {
			values[j] = row.Col(j)
		}
		rows = append(rows, values)
	}

	return gridFromXLSRows(rows), nil
}

func gridFromXLSRows(rows [][]string) Grid {
	for _, values := range rows {
		for j, value := range values {
			values[j] = xlsCellValue(value)
		}
	}
	return GridFromStrings(rows, true)
}

// xlsCellValue rewrites the RFC3339 text extrame/xls produces for cells with
// a custom number format. Cells with a time of day become "HH:MM", whole
// days become "D-Mon" so the date row still matches.
func xlsCellValue(value string) string {
	if value == formulaPlaceholder {
		return ""
	}
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < len(time.RFC3339)-5 || !strings.Contains(trimmed, "T") {
		return value
	}
	parsed, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return value
	}
	if parsed.Hour() != 0 || parsed.Minute() != 0 || parsed.Second() != 0 {
		return parsed.Format("15:04")
	}
	return parsed.Format("2-Jan")
}
