package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, table Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if table.Sheet != "" {
		if err := file.SetSheetName(sheet, table.Sheet); err != nil {
			return fmt.Errorf("rename excel sheet: %w", err)
		}
		sheet = table.Sheet
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}
	if len(table.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(table.Headers), 1)
		if err := file.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("style excel header: %w", err)
		}
	}

	for i, values := range table.Rows {
		row := i + 2
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
