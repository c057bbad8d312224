package state

import (
	"context"
	"testing"

	"peredachka-bot/internal/models"
)

func TestManagerTransitionAccumulatesForm(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	if m.InProgress(7) {
		t.Fatal("fresh user should be idle")
	}

	err := m.Transition(ctx, 7, func(s *Session) {
		s.Step = StepCityFrom
		s.Form.Role = models.RoleSender
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	err = m.Transition(ctx, 7, func(s *Session) {
		s.Step = StepCityTo
		s.Form.OriginID = 11
		s.Form.OriginName = "Paris"
	})
	if err != nil {
		t.Fatalf("transition: %v", err)
	}

	sess, err := m.Session(ctx, 7)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if sess.Step != StepCityTo {
		t.Errorf("step = %s, want %s", sess.Step, StepCityTo)
	}
	if sess.Form.Role != models.RoleSender || sess.Form.OriginName != "Paris" {
		t.Errorf("form lost fields across transitions: %+v", sess.Form)
	}
	if !m.InProgress(7) {
		t.Error("user should be in progress")
	}

	if err := m.Clear(ctx, 7); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if m.InProgress(7) {
		t.Error("user should be idle after clear")
	}
}

func TestFormAddBaggage(t *testing.T) {
	var f Form
	if !f.AddBaggage(models.BaggageUsual) {
		t.Fatal("first add should change the set")
	}
	if f.AddBaggage(models.BaggageUsual) {
		t.Fatal("duplicate add should be rejected")
	}
	if !f.AddBaggage(models.BaggageLiquid) {
		t.Fatal("second distinct kind should be accepted")
	}
	if len(f.Baggage) != 2 {
		t.Fatalf("baggage set = %v", f.Baggage)
	}
}

func TestSessionIsolationBetweenUsers(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ctx := context.Background()

	_ = m.Transition(ctx, 1, func(s *Session) { s.Step = StepDate })
	_ = m.Transition(ctx, 2, func(s *Session) { s.Step = StepComment })

	if got := m.Step(ctx, 1); got != StepDate {
		t.Errorf("user 1 step = %s", got)
	}
	if got := m.Step(ctx, 2); got != StepComment {
		t.Errorf("user 2 step = %s", got)
	}
}
