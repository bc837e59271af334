package timeutil

import (
	"testing"
	"time"
)

func TestDate(t *testing.T) {
	t.Parallel()

	got, ok := Date(2025, 3, 1)
	if !ok {
		t.Fatalf("expected valid date")
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 || got.Location() != time.UTC {
		t.Fatalf("unexpected date: %v", got)
	}

	invalid := [][3]int{{2025, 2, 31}, {2025, 2, 29}, {2025, 0, 1}, {2025, 13, 1}, {2025, 1, 0}}
	for _, value := range invalid {
		if _, ok := Date(value[0], value[1], value[2]); ok {
			t.Fatalf("expected %v to be rejected", value)
		}
	}
	if _, ok := Date(2024, 2, 29); !ok {
		t.Fatalf("expected leap day to be accepted")
	}
}

func TestStartOfDay(t *testing.T) {
	t.Parallel()

	input := time.Date(2026, 3, 1, 14, 37, 9, 123, time.Local)
	got := StartOfDay(input)

	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 1 {
		t.Fatalf("unexpected date: %v", got)
	}
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("expected midnight, got %v", got)
	}
}

func TestClockMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{input: "", want: 0},
		{input: "00:00", want: 0},
		{input: "00:00:00", want: 0},
		{input: "09:15:00", want: 555},
		{input: "9:5", want: 545},
		{input: "120:30", want: 7230},
		{input: "abc", want: 0},
		{input: "xx:10", want: 0},
	}

	for _, tt := range tests {
		if got := ClockMinutes(tt.input); got != tt.want {
			t.Fatalf("ClockMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFormatHHMM(t *testing.T) {
	t.Parallel()

	if got := FormatHHMM(0); got != "00:00" {
		t.Fatalf("expected 00:00, got %s", got)
	}
	if got := FormatHHMM(1530); got != "25:30" {
		t.Fatalf("expected 25:30, got %s", got)
	}
}

func TestMonthName(t *testing.T) {
	t.Parallel()

	if got := MonthName(3); got != "Mar" {
		t.Fatalf("expected Mar, got %q", got)
	}
	if got := MonthName(13); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
	if month, ok := MonthFromName("sEp"); !ok || month != 9 {
		t.Fatalf("expected sep to resolve to 9, got %d %v", month, ok)
	}
}
