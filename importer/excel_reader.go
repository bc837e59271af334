package importer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

func (r *ExcelReader) Read(data []byte) (Grid, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel workbook: %w", err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("excel workbook has no sheets")
	}

	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}

	grid := make(Grid, len(rows))
	for i, values := range rows {
		row := make(Row, len(values))
		for j, value := range values {
			if value == "" {
				continue
			}
			cell, err := excelCell(file, sheetName, i, j, value)
			if err != nil {
				return nil, err
			}
			row[j] = cell
		}
		grid[i] = row
	}

	return grid, nil
}

// excelCell keeps numeric cells numeric so that day fractions and serial
// dates survive decoding.
func excelCell(file *excelize.File, sheetName string, row, col int, value string) (Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, fmt.Errorf("resolve cell name: %w", err)
	}
	cellType, err := file.GetCellType(sheetName, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("read cell type %s: %w", axis, err)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate, excelize.CellTypeFormula:
		if number, err := strconv.ParseFloat(value, 64); err == nil {
			return NumberCell(number), nil
		}
	}
	return TextCell(value), nil
}
