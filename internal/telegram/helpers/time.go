package helpers

import (
	"strings"
	"time"
)

// DateLayout is the wizard's user-facing date format.
const DateLayout = "02.01.2006"

var wizardDateLayouts = []string{
	"02.01.2006",
	"2.1.2006",
}

// ParseWizardDate parses a single wizard date in DD.MM.YYYY form.
// It returns the parsed time in the local timezone and true on success.
func ParseWizardDate(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range wizardDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseWizardDateRange parses "DD.MM.YYYY - DD.MM.YYYY" (hyphen-separated,
// spaces optional) into two dates.
func ParseWizardDateRange(input string) (time.Time, time.Time, bool) {
	parts := strings.SplitN(input, "-", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	from, ok := ParseWizardDate(parts[0])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := ParseWizardDate(parts[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// FormatWizardDate renders a date back in the wizard's format.
func FormatWizardDate(t time.Time) string {
	return t.Format(DateLayout)
}
