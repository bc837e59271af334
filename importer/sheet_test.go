package importer

import (
	"fmt"
	"time"
)

// testNow pins year-less day headers to 2025.
func testNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

type dayColumn struct {
	header string
	in     string
	out    string
}

// employeeBlock renders one employee section in the layout of the biometric
// export: a marker row, the Days row, then ten field rows starting at Shift.
func employeeBlock(code, name string, days []dayColumn) [][]string {
	rows := [][]string{
		{"Employee Code:", code, "", "Employee Name:", name},
		{"Days"},
		{"Shift"},
		{"In Time"},
		{"Out Time"},
		{"Late By"},
		{"Early By"},
		{"OT"},
		{"Duration"},
		{"T Duration"},
		{"Status"},
		{},
	}
	for _, day := range days {
		rows[1] = append(rows[1], day.header)
		rows[2] = append(rows[2], "GS")
		rows[3] = append(rows[3], day.in)
		rows[4] = append(rows[4], day.out)
		rows[5] = append(rows[5], "")
		rows[6] = append(rows[6], "")
		rows[7] = append(rows[7], "")
		rows[8] = append(rows[8], "08:00")
		rows[9] = append(rows[9], "08:30")
		rows[10] = append(rows[10], "P")
	}
	return rows
}

func monthDays(month string, from, to int, in, out string) []dayColumn {
	days := make([]dayColumn, 0, to-from+1)
	for day := from; day <= to; day++ {
		days = append(days, dayColumn{header: fmt.Sprintf("%d-%s", day, month), in: in, out: out})
	}
	return days
}

func textGrid(blocks ...[][]string) Grid {
	rows := make([][]string, 0)
	for _, block := range blocks {
		rows = append(rows, block...)
	}
	return GridFromStrings(rows, false)
}
