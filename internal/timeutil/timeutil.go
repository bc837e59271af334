package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var shortMonthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Date returns UTC midnight for the given calendar day. The second value is
// false when the day does not exist (31-Feb, day 0, month 13).
func Date(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	value := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if value.Month() != time.Month(month) || value.Day() != day {
		return time.Time{}, false
	}
	return value, true
}

// StartOfDay drops the clock part and moves the value to UTC midnight.
func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}

func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return parsed, nil
}

// ClockMinutes converts "H:MM" or "HH:MM:SS" into minutes, ignoring seconds.
// Empty and malformed values count as zero.
func ClockMinutes(value string) int {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return 0
	}
	return hours*60 + minutes
}

// FormatHHMM renders minutes as HH:MM; hours may exceed 23.
func FormatHHMM(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MonthName returns the three-letter English name of month 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return shortMonthNames[month-1]
}

// MonthFromName resolves a three-letter month name case-insensitively.
func MonthFromName(name string) (int, bool) {
	for i, candidate := range shortMonthNames {
		if strings.EqualFold(candidate, name) {
			return i + 1, true
		}
	}
	return 0, false
}
