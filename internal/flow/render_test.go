package flow

import (
	"strings"
	"testing"

	"peredachka-bot/internal/models"
	"peredachka-bot/internal/telegram/state"
)

func TestRenderSummaryEscapesUserText(t *testing.T) {
	f := &state.Form{
		Role:            models.RoleSender,
		OriginName:      "New_York",
		DestinationName: "Ber*lin",
		Comment:         "care [fragile]",
	}
	out := renderSummary(f)

	for _, want := range []string{`New\_York`, `Ber\*lin`, `care \[fragile]`} {
		if !strings.Contains(out, want) {
			t.Errorf("summary %q missing escaped %q", out, want)
		}
	}
	if strings.Contains(out, "New_York") {
		t.Error("raw underscore survived escaping")
	}
}

func TestRenderMatchEscapesCounterpart(t *testing.T) {
	m := models.Match{
		Request: models.Request{
			CourierID:  nullInt64(1),
			TravelDate: nullTime(day(2026, 1, 16)),
		},
		CounterpartName: "Ann_a",
		OriginName:      "Paris",
		DestinationName: "Berlin",
	}
	out := renderMatch(m)
	if !strings.Contains(out, `Ann\_a`) {
		t.Fatalf("match card %q leaves counterpart name unescaped", out)
	}
}
