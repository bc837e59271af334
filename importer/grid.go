package importer

import (
	"strconv"
	"strings"
	"unicode"
)

type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one decoded spreadsheet value. Numbers stay numeric so serial
// dates and time fractions can be told apart from text.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

func TextCell(value string) Cell {
	if value == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: value}
}

func NumberCell(value float64) Cell {
	return Cell{Kind: CellNumber, Number: value}
}

func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && c.Text == "")
}

func (c Cell) IsNumber() bool {
	return c.Kind == CellNumber
}

// IsTruthy is false for blanks and for numeric zero.
func (c Cell) IsTruthy() bool {
	switch c.Kind {
	case CellText:
		return c.Text != ""
	case CellNumber:
		return c.Number != 0
	default:
		return false
	}
}

// String renders the cell the way it reads in the sheet.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Label returns the trimmed lower-case text used for row labels.
func (c Cell) Label() string {
	return strings.ToLower(strings.TrimSpace(c.String()))
}

type Row []Cell

// Grid is the first sheet of a workbook as rows of cells. Rows may differ in length.
type Grid []Row

func (g Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return Cell{}
	}
	return g[row][col]
}

// GridFromStrings builds a text-only grid, converting numeric-looking
// values when parseNumbers is set.
func GridFromStrings(rows [][]string, parseNumbers bool) Grid {
	grid := make(Grid, len(rows))
	for i, values := range rows {
		row := make(Row, len(values))
		for j, value := range values {
			row[j] = cellFromString(value, parseNumbers)
		}
		grid[i] = row
	}
	return grid
}

func cellFromString(value string, parseNumbers bool) Cell {
	if parseNumbers {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" && !strings.ContainsAny(trimmed, "-/:") && strings.IndexFunc(trimmed, unicode.IsLetter) < 0 {
			if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return NumberCell(number)
			}
		}
	}
	return TextCell(value)
}
