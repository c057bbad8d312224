// Package state keeps per-user conversation sessions for the request wizard.
package state

import (
	"context"
	"time"

	"peredachka-bot/internal/models"
)

// Step identifies one position in the linear registration wizard.
type Step string

const (
	// StepIdle indicates there is no active conversation with the user.
	StepIdle      Step = "idle"
	StepRole      Step = "role_selection"
	StepCityFrom  Step = "city_from"
	StepCityTo    Step = "city_to"
	StepDate      Step = "date"
	StepDateRange Step = "date_range"
	StepBaggage   Step = "baggage_selection"
	StepComment   Step = "comment"
	StepConfirm   Step = "confirmation"
)

// Form accumulates wizard answers until confirmation. All mutations go
// through the flow's transition handlers; there is no untyped scratch map.
type Form struct {
	Role            models.Role          `json:"role,omitempty"`
	OriginID        int64                `json:"origin_id,omitempty"`
	OriginName      string               `json:"origin_name,omitempty"`
	DestinationID   int64                `json:"destination_id,omitempty"`
	DestinationName string               `json:"destination_name,omitempty"`
	TravelDate      time.Time            `json:"travel_date,omitempty"`
	DateFrom        time.Time            `json:"date_from,omitempty"`
	DateTo          time.Time            `json:"date_to,omitempty"`
	Baggage         []models.BaggageKind `json:"baggage,omitempty"`
	Comment         string               `json:"comment,omitempty"`

	// SummaryMessageID points at the running summary message edited in place
	// as fields accumulate.
	SummaryMessageID int   `json:"summary_message_id,omitempty"`
	SummaryChatID    int64 `json:"summary_chat_id,omitempty"`

	// PromptMessageID is the active force-reply prompt; text input must
	// arrive as a reply to it.
	PromptMessageID int `json:"prompt_message_id,omitempty"`
}

// HasBaggage reports whether the kind was already selected.
func (f *Form) HasBaggage(kind models.BaggageKind) bool {
	for _, k := range f.Baggage {
		if k == kind {
			return true
		}
	}
	return false
}

// AddBaggage appends the kind unless already present; reports whether the set
// changed.
func (f *Form) AddBaggage(kind models.BaggageKind) bool {
	if f.HasBaggage(kind) {
		return false
	}
	f.Baggage = append(f.Baggage, kind)
	return true
}

// Session is the persisted wizard position plus its accumulated form.
type Session struct {
	Step Step `json:"step"`
	Form Form `json:"form"`
}

// Idle returns the zero session used when nothing is stored for a user.
func Idle() Session {
	return Session{Step: StepIdle}
}

// Store persists sessions keyed by Telegram user ID. Load reports absence via
// the boolean rather than an error.
type Store interface {
	Load(ctx context.Context, userID int64) (Session, bool, error)
	Save(ctx context.Context, userID int64, sess Session) error
	Delete(ctx context.Context, userID int64) error
}
