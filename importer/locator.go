package importer

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"bioattend/attendance"
)

const (
	headerSearchWindow = 15
	fieldWindow        = 10
	nextEmployeeWindow = 50
)

var (
	employeeCodeMarkers = []string{"employeecode", "empcode", "emp_code"}
	employeeNameMarkers = []string{"employeename", "empname", "emp_name"}
)

type ScanState int

const (
	SeekingEmployee ScanState = iota
	SeekingDatesRow
	SeekingHeaderRow
	BuildingRecords
	Done
)

func (s ScanState) String() string {
	switch s {
	case SeekingEmployee:
		return "seeking-employee"
	case SeekingDatesRow:
		return "seeking-dates-row"
	case SeekingHeaderRow:
		return "seeking-header-row"
	case BuildingRecords:
		return "building-records"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Block is one employee section of the sheet. Row indexes are absolute.
type Block struct {
	EmployeeID   string
	EmployeeName string
	DatesRow     int
	HeaderRow    int
	FieldRows    map[string]int
	DateColumns  []int
}

// Locator walks the grid with a forward-only cursor and yields employee blocks.
type Locator struct {
	grid      Grid
	state     ScanState
	cursor    int
	block     Block
	employees int
	skipped   []attendance.SkipEntry
	logger    *slog.Logger
}

func NewLocator(grid Grid, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locator{grid: grid, state: SeekingEmployee, logger: logger}
}

func (l *Locator) State() ScanState {
	return l.state
}

func (l *Locator) Cursor() int {
	return l.cursor
}

// EmployeesFound counts code/name pairs located so far, including blocks that
// were later skipped.
func (l *Locator) EmployeesFound() int {
	return l.employees
}

// DrainSkipped returns the skips recorded since the previous call.
func (l *Locator) DrainSkipped() []attendance.SkipEntry {
	skipped := l.skipped
	l.skipped = nil
	return skipped
}

// Next advances the scan to the next block that has date columns. It returns
// false once no further employee marker exists.
func (l *Locator) Next() (Block, bool) {
	for {
		switch l.state {
		case SeekingEmployee:
			code, name, next, ok := findEmployee(l.grid, l.cursor)
			if !ok {
				l.logger.Debug("no more employees", "from_row", l.cursor, "rows", len(l.grid))
				l.cursor = len(l.grid)
				l.state = Done
				continue
			}
			l.employees++
			l.block = Block{EmployeeID: code, EmployeeName: name}
			l.cursor = next
			l.state = SeekingDatesRow
			l.logger.Debug("employee found", "employee", code, "name", name, "row", next-1)

		case SeekingDatesRow:
			row, ok := findDatesRow(l.grid, l.cursor)
			if !ok {
				l.cursor = len(l.grid)
				l.skip(attendance.SkipRow(l.cursor, "Days row not found for "+l.block.EmployeeID))
				l.state = Done
				continue
			}
			l.block.DatesRow = row
			l.cursor = row + 1
			l.state = SeekingHeaderRow

		case SeekingHeaderRow:
			header, ok := findHeaderRow(l.grid, l.block.DatesRow)
			if !ok {
				l.skip(attendance.SkipRow(l.block.DatesRow, "Shift row not found for "+l.block.EmployeeID))
				l.cursor = l.block.DatesRow + headerSearchWindow
				l.state = SeekingEmployee
				continue
			}
			l.block.HeaderRow = header
			l.block.FieldRows = buildFieldRowMap(l.grid, header)
			l.block.DateColumns = findDateColumns(l.grid, l.block.DatesRow)
			if len(l.block.DateColumns) == 0 {
				l.skip(attendance.SkipRow(l.block.DatesRow, "No date columns found for "+l.block.EmployeeID))
				l.cursor = header + fieldWindow
				l.state = SeekingEmployee
				continue
			}
			l.logger.Debug("employee block located",
				"employee", l.block.EmployeeID,
				"dates_row", l.block.DatesRow,
				"header_row", header,
				"date_columns", len(l.block.DateColumns),
			)
			l.state = BuildingRecords
			return l.block, true

		case BuildingRecords:
			l.cursor = findNextEmployeeRow(l.grid, l.block.HeaderRow+fieldWindow)
			l.state = SeekingEmployee

		default:
			return Block{}, false
		}
	}
}

func (l *Locator) skip(entry attendance.SkipEntry) {
	l.logger.Debug("skipped", "row", entry.Row, "reason", entry.Reason)
	l.skipped = append(l.skipped, entry)
}

// findEmployee scans from row `from` until both an employee code and name have
// been captured. next is the row after the one that completed the pair.
func findEmployee(grid Grid, from int) (code, name string, next int, ok bool) {
	for i := max(from, 0); i < len(grid); i++ {
		row := grid[i]
		for j, cell := range row {
			if cell.Kind != CellText {
				continue
			}
			label := compactLabel(cell.Text)
			if code == "" && containsAny(label, employeeCodeMarkers) {
				code = valueRightOf(row, j, 1)
			}
			if name == "" && containsAny(label, employeeNameMarkers) {
				name = valueRightOf(row, j, 3)
			}
		}
		if code != "" && name != "" {
			return code, name, i + 1, true
		}
	}
	return "", "", len(grid), false
}

// valueRightOf returns the first truthy cell from column j rightward that
// differs from the label cell and has at least minLen characters once trimmed.
func valueRightOf(row Row, j, minLen int) string {
	label := row[j]
	for k := j; k < len(row); k++ {
		cell := row[k]
		if !cell.IsTruthy() || cell == label {
			continue
		}
		value := strings.TrimSpace(cell.String())
		if utf8.RuneCountInString(value) >= minLen {
			return value
		}
	}
	return ""
}

func findDatesRow(grid Grid, from int) (int, bool) {
	for i := max(from, 0); i < len(grid); i++ {
		if grid.Cell(i, 0).Label() == "days" {
			return i, true
		}
	}
	return -1, false
}

func findHeaderRow(grid Grid, datesRow int) (int, bool) {
	end := min(datesRow+headerSearchWindow, len(grid))
	for j := datesRow + 1; j < end; j++ {
		if grid.Cell(j, 0).Label() == "shift" {
			return j, true
		}
	}
	return -1, false
}

// buildFieldRowMap maps the first-column label of each row in the field window
// to its row. A repeated label keeps the later row.
func buildFieldRowMap(grid Grid, headerRow int) map[string]int {
	end := min(headerRow+fieldWindow, len(grid))
	fields := make(map[string]int, fieldWindow)
	for i := headerRow; i < end; i++ {
		if label := grid.Cell(i, 0).Label(); label != "" {
			fields[label] = i
		}
	}
	return fields
}

func findDateColumns(grid Grid, datesRow int) []int {
	if datesRow < 0 || datesRow >= len(grid) {
		return nil
	}
	row := grid[datesRow]
	columns := make([]int, 0, len(row))
	for col := 1; col < len(row); col++ {
		if IsDateColumnHeader(row[col]) {
			columns = append(columns, col)
		}
	}
	return columns
}

// findNextEmployeeRow looks at most nextEmployeeWindow rows ahead for a row
// whose first cell is an employee code label. It stops on that row.
func findNextEmployeeRow(grid Grid, from int) int {
	end := min(from+nextEmployeeWindow, len(grid))
	i := from
	for ; i < end; i++ {
		first := grid.Cell(i, 0)
		if first.Kind == CellText && containsAny(compactLabel(first.Text), employeeCodeMarkers) {
			return i
		}
	}
	return i
}

func compactLabel(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, value)
}

func containsAny(value string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(value, marker) {
			return true
		}
	}
	return false
}
