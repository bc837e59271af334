package importer

import (
	"regexp"
	"testing"
	"time"
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

func TestNormalizeTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "00:00:00"},
		{name: "hour minute", input: "9:5", want: "09:05:00"},
		{name: "full clock", input: "18:30:15", want: "18:30:15"},
		{name: "padded", input: " 07:45 ", want: "07:45:00"},
		{name: "day fraction", input: "0.375", want: "09:00:00"},
		{name: "fraction rounds to minute", input: "0.3958333", want: "09:30:00"},
		{name: "whole number", input: "45292", want: "00:00:00"},
		{name: "text", input: "absent", want: "00:00:00"},
		{name: "too many parts", input: "1:2:3:4", want: "00:00:00"},
		{name: "non digits", input: "ab:cd", want: "00:00:00"},
		{name: "three digit hour", input: "100:00", want: "00:00:00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeTime(tc.input); got != tc.want {
				t.Fatalf("NormalizeTime(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeTime_IdempotentAndWellFormed(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "0", "1", "9:5", "09:05", "9:05:7", "0.5", "0.999999", "23:59:59", "--", "12:", ":30", "x", "0.0001"}
	for _, input := range inputs {
		once := NormalizeTime(input)
		if !clockPattern.MatchString(once) {
			t.Fatalf("NormalizeTime(%q) = %q is not HH:MM:SS", input, once)
		}
		if twice := NormalizeTime(once); twice != once {
			t.Fatalf("NormalizeTime not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestParseDayMonth(t *testing.T) {
	t.Parallel()

	got, ok := ParseDayMonth(TextCell("15-Feb"), 2025)
	if !ok {
		t.Fatalf("expected 15-Feb to parse")
	}
	if got.Year() != 2025 || got.Month() != time.February || got.Day() != 15 {
		t.Fatalf("unexpected date: %v", got)
	}

	if got, ok := ParseDayMonth(TextCell("1-jan"), 2025); !ok || got.Month() != time.January || got.Day() != 1 {
		t.Fatalf("expected lower-case month to parse, got %v %v", got, ok)
	}

	rejected := []Cell{
		TextCell("31-Feb"),
		TextCell("0-Mar"),
		TextCell("abc"),
		TextCell("15-Xyz"),
		TextCell("15/02"),
		TextCell("123-Jan"),
		NumberCell(45292),
		{},
	}
	for _, cell := range rejected {
		if _, ok := ParseDayMonth(cell, 2025); ok {
			t.Fatalf("expected %q to be rejected", cell.String())
		}
	}
}

func TestDateHeaderRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cell Cell
		want string
		ok   bool
	}{
		{cell: TextCell("1-Jan"), want: "day-month name", ok: true},
		{cell: TextCell("15/02"), want: "day/month", ok: true},
		{cell: TextCell("15-02"), want: "day-month", ok: true},
		{cell: NumberCell(45292), want: "excel serial", ok: true},
		{cell: TextCell("45292"), ok: false},
		{cell: TextCell("7"), want: "day number", ok: true},
		{cell: NumberCell(31), want: "day number", ok: true},
		{cell: TextCell("32"), ok: false},
		{cell: TextCell("0"), ok: false},
		{cell: TextCell("2025-01-15"), want: "date-like", ok: true},
		{cell: TextCell("1.5"), want: "date-like", ok: true},
		{cell: TextCell("Mon"), ok: false},
		{cell: TextCell(""), ok: false},
		{cell: Cell{}, ok: false},
	}

	for _, tt := range tests {
		got, ok := DateHeaderRule(tt.cell)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("DateHeaderRule(%q) = %q/%v, want %q/%v", tt.cell.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestSumDurations(t *testing.T) {
	t.Parallel()

	if got := SumDurations("01:30:00", "00:45:00"); got != "02:15" {
		t.Fatalf("expected 02:15, got %s", got)
	}
	if got := SumDurations("", "00:00", "bogus"); got != "00:00" {
		t.Fatalf("expected 00:00, got %s", got)
	}
	if got := SumDurations("20:00", "10:30:59"); got != "30:30" {
		t.Fatalf("expected 30:30, got %s", got)
	}
}
