package flow

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateTravelDate(t *testing.T) {
	now := time.Date(2026, time.January, 10, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		date    time.Time
		wantErr error
	}{
		{"today", day(2026, time.January, 10), nil},
		{"tomorrow", day(2026, time.January, 11), nil},
		{"horizon boundary", day(2026, time.March, 11), nil},
		{"yesterday", day(2026, time.January, 9), errDatePast},
		{"past horizon", day(2026, time.March, 12), errDateTooFar},
		{"far future", day(2030, time.January, 1), errDateTooFar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateTravelDate(now, tc.date); err != tc.wantErr {
				t.Fatalf("validateTravelDate(%v) = %v, want %v", tc.date, err, tc.wantErr)
			}
		})
	}
}

func TestValidateTravelDateIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2026, time.January, 10, 23, 59, 0, 0, time.UTC)
	today := time.Date(2026, time.January, 10, 0, 0, 1, 0, time.UTC)
	if err := validateTravelDate(now, today); err != nil {
		t.Fatalf("same calendar day rejected: %v", err)
	}
}

func TestValidateDateRange(t *testing.T) {
	now := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		from, to time.Time
		wantErr  error
	}{
		{"single day", day(2026, time.January, 15), day(2026, time.January, 15), nil},
		{"normal window", day(2026, time.January, 15), day(2026, time.February, 1), nil},
		{"inverted", day(2026, time.February, 1), day(2026, time.January, 15), errRangeInverted},
		{"starts in past", day(2026, time.January, 5), day(2026, time.January, 15), errDatePast},
		{"ends past horizon", day(2026, time.January, 15), day(2026, time.June, 1), errDateTooFar},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validateDateRange(now, tc.from, tc.to); err != tc.wantErr {
				t.Fatalf("validateDateRange(%v, %v) = %v, want %v", tc.from, tc.to, err, tc.wantErr)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	from := day(2026, time.January, 15)
	to := day(2026, time.January, 20)

	if !rangeContains(from, to, day(2026, time.January, 15)) {
		t.Error("range start excluded")
	}
	if !rangeContains(from, to, day(2026, time.January, 20)) {
		t.Error("range end excluded")
	}
	if rangeContains(from, to, day(2026, time.January, 14)) {
		t.Error("day before start included")
	}
	if rangeContains(from, to, day(2026, time.January, 21)) {
		t.Error("day after end included")
	}
}
