package helpers

import (
	"testing"
	"time"
)

func TestParseWizardDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"15.01.2026", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.Local), true},
		{" 15.01.2026 ", time.Date(2026, time.January, 15, 0, 0, 0, 0, time.Local), true},
		{"5.1.2026", time.Date(2026, time.January, 5, 0, 0, 0, 0, time.Local), true},
		{"2026-01-15", time.Time{}, false},
		{"31.02.2026", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseWizardDate(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseWizardDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && !got.Equal(tc.want) {
			t.Errorf("ParseWizardDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseWizardDateRange(t *testing.T) {
	from, to, ok := ParseWizardDateRange("15.01.2026 - 20.01.2026")
	if !ok {
		t.Fatal("valid range rejected")
	}
	if FormatWizardDate(from) != "15.01.2026" || FormatWizardDate(to) != "20.01.2026" {
		t.Fatalf("parsed %v .. %v", from, to)
	}

	if _, _, ok := ParseWizardDateRange("15.01.2026"); ok {
		t.Error("single date accepted as range")
	}
	if _, _, ok := ParseWizardDateRange("15.01.2026 - oops"); ok {
		t.Error("garbage end accepted")
	}
}
