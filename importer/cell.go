package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bioattend/attendance"
	"bioattend/internal/timeutil"
)

var (
	dayMonthNamePattern = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})$`)
	daySlashPattern     = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
	dayDashPattern      = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
	dayNumberPattern    = regexp.MustCompile(`^\d{1,2}$`)
	clockPartPattern    = regexp.MustCompile(`^\d{1,2}$`)
)

// NormalizeTime canonicalizes a clock value to HH:MM:SS. Excel day fractions
// in (0,1) are converted to a clock time; anything unrecognized becomes 00:00:00.
func NormalizeTime(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return attendance.ZeroTime
	}

	if number, err := strconv.ParseFloat(value, 64); err == nil && !strings.Contains(value, ":") {
		if number > 0 && number < 1 {
			return FractionToClock(number) + ":00"
		}
		return attendance.ZeroTime
	}

	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return attendance.ZeroTime
	}
	clock := [3]int{}
	for i, part := range parts {
		if !clockPartPattern.MatchString(part) {
			return attendance.ZeroTime
		}
		clock[i], _ = strconv.Atoi(part)
	}
	return fmt.Sprintf("%02d:%02d:%02d", clock[0], clock[1], clock[2])
}

// FractionToClock converts an Excel time-of-day fraction to HH:MM.
func FractionToClock(fraction float64) string {
	return timeutil.FormatHHMM(int(math.Round(fraction * 24 * 60)))
}

// ParseDayMonth parses "D-MMM" text cells (e.g. "15-Feb") into a date in the
// given year. Numeric cells and impossible days are rejected.
func ParseDayMonth(cell Cell, year int) (time.Time, bool) {
	if cell.Kind != CellText {
		return time.Time{}, false
	}
	match := dayMonthNamePattern.FindStringSubmatch(strings.TrimSpace(cell.Text))
	if match == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := timeutil.MonthFromName(match[2])
	if !ok {
		return time.Time{}, false
	}
	return timeutil.Date(year, month, day)
}

type dateHeaderRule struct {
	name  string
	match func(cell Cell, text string) bool
}

// dateHeaderRules is evaluated in order; the first match wins. The last rule
// is a loose fallback for date-like values the other patterns miss.
var dateHeaderRules = []dateHeaderRule{
	{name: "day-month name", match: func(_ Cell, text string) bool {
		return dayMonthNamePattern.MatchString(text)
	}},
	{name: "day/month", match: func(_ Cell, text string) bool {
		return daySlashPattern.MatchString(text)
	}},
	{name: "day-month", match: func(_ Cell, text string) bool {
		return dayDashPattern.MatchString(text)
	}},
	{name: "excel serial", match: func(cell Cell, _ string) bool {
		return cell.IsNumber() && cell.Number > 40000 && cell.Number < 50000
	}},
	{name: "day number", match: func(_ Cell, text string) bool {
		if !dayNumberPattern.MatchString(text) {
			return false
		}
		day, err := strconv.Atoi(text)
		return err == nil && day >= 1 && day <= 31
	}},
	{name: "date-like", match: func(_ Cell, text string) bool {
		return strings.ContainsAny(text, "0123456789") && strings.ContainsAny(text, "-/.")
	}},
}

// DateHeaderRule reports which rule, if any, marks the cell as a date column header.
func DateHeaderRule(cell Cell) (string, bool) {
	if cell.IsEmpty() {
		return "", false
	}
	text := strings.TrimSpace(cell.String())
	for _, rule := range dateHeaderRules {
		if rule.match(cell, text) {
			return rule.name, true
		}
	}
	return "", false
}

func IsDateColumnHeader(cell Cell) bool {
	_, ok := DateHeaderRule(cell)
	return ok
}

// SumDurations adds HH:MM[:SS] values and returns the total as HH:MM.
func SumDurations(values ...string) string {
	total := 0
	for _, value := range values {
		total += timeutil.ClockMinutes(value)
	}
	return timeutil.FormatHHMM(total)
}
