package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidateYAMLContent_ExampleIsValid(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}

	rules := cfg.ClassifyRules()
	if rules.LateAfter != 555 || rules.HalfDayAfter != 660 || rules.EarlyBefore != 930 {
		t.Fatalf("unexpected clock thresholds: %+v", rules)
	}
	if rules.LateAllowance != 3 || rules.EarlyAllowance != 2 {
		t.Fatalf("unexpected allowances: %+v", rules)
	}
	if len(rules.WeeklyOff) != 1 || rules.WeeklyOff[0] != time.Sunday {
		t.Fatalf("unexpected weekly off days: %v", rules.WeeklyOff)
	}
	if cfg.UploadLimit() != 5<<20 {
		t.Fatalf("unexpected upload limit: %d", cfg.UploadLimit())
	}
}

func TestValidateYAMLContent_DefaultsFillMissingKeys(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Storage.Path != "bioattend.db" {
		t.Fatalf("unexpected storage defaults: %+v", cfg.Storage)
	}
	if cfg.Server.Port != 9090 || cfg.Server.MaxUploadMB != 5 {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
}

func TestValidateYAMLContent_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown driver",
			content: "storage:\n  driver: mysql\n",
			want:    "Driver",
		},
		{
			name:    "postgres without dsn",
			content: "storage:\n  driver: postgres\n",
			want:    "DSN",
		},
		{
			name:    "malformed clock",
			content: "rules:\n  late_after: \"9.15\"\n",
			want:    "LateAfter",
		},
		{
			name:    "late window inverted",
			content: "rules:\n  late_after: \"11:30\"\n  half_day_after: \"11:00\"\n",
			want:    "must be before",
		},
		{
			name:    "unknown weekday",
			content: "rules:\n  weekly_off: [\"funday\"]\n",
			want:    "WeeklyOff",
		},
		{
			name:    "duplicate weekday",
			content: "rules:\n  weekly_off: [\"sunday\", \"Sun\"]\n",
			want:    "duplicates",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := ValidateYAMLContent([]byte(tc.content))
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestClassifyRules_WeekdayAbbreviations(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("rules:\n  weekly_off: [\"Fri\", \"saturday\"]\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	rules := cfg.ClassifyRules()
	if len(rules.WeeklyOff) != 2 || rules.WeeklyOff[0] != time.Friday || rules.WeeklyOff[1] != time.Saturday {
		t.Fatalf("unexpected weekly off days: %v", rules.WeeklyOff)
	}
}
