package flow

import (
	"errors"
	"time"
)

// maxHorizonDays bounds how far into the future a request may reach.
const maxHorizonDays = 60

var (
	errDatePast      = errors.New("date before today")
	errDateTooFar    = errors.New("date beyond horizon")
	errRangeInverted = errors.New("range start after end")
)

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// validateTravelDate checks a single courier date against the acceptance
// window [today, today+60d].
func validateTravelDate(now, d time.Time) error {
	today := dateOnly(now)
	horizon := today.AddDate(0, 0, maxHorizonDays)
	day := dateOnly(d)
	if day.Before(today) {
		return errDatePast
	}
	if day.After(horizon) {
		return errDateTooFar
	}
	return nil
}

// validateDateRange checks a sender window: start not after end, start not in
// the past, end within the horizon.
func validateDateRange(now, from, to time.Time) error {
	if dateOnly(from).After(dateOnly(to)) {
		return errRangeInverted
	}
	if err := validateTravelDate(now, from); err != nil {
		return err
	}
	if err := validateTravelDate(now, to); err != nil {
		return err
	}
	return nil
}

// rangeContains reports whether day falls inside [from, to] inclusive.
func rangeContains(from, to, day time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(from)) && !d.After(dateOnly(to))
}
