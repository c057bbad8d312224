package state

import (
	"context"
	"sync"

	"peredachka-bot/internal/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Manager routes updates to the handler of the user's current step and owns
// the session store behind it.
type Manager struct {
	store Store

	mu       sync.RWMutex
	handlers map[Step]tele.HandlerFunc
}

// NewManager wraps a session store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		handlers: make(map[Step]tele.HandlerFunc),
	}
}

// Handle associates a step with its handler. Registration happens once at
// wiring time, before the bot starts receiving updates.
func (m *Manager) Handle(step Step, h tele.HandlerFunc) {
	if h == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.handlers[step]; exists {
		logger.TWire.Warn("fsm handler duplicate",
			slog.String("event", "register.fsm.duplicate"),
			slog.String("step", string(step)),
		)
		return
	}
	m.handlers[step] = h
}

// Session returns the stored session for a user, or an idle one.
func (m *Manager) Session(ctx context.Context, userID int64) (Session, error) {
	sess, ok, err := m.store.Load(ctx, userID)
	if err != nil {
		return Idle(), err
	}
	if !ok {
		return Idle(), nil
	}
	return sess, nil
}

// Put stores the session for a user.
func (m *Manager) Put(ctx context.Context, userID int64, sess Session) error {
	return m.store.Save(ctx, userID, sess)
}

// Transition mutates the stored session through fn and saves it back. fn
// runs against the freshly loaded session, so repeat-press updates compose
// with the stored form rather than a stale copy.
func (m *Manager) Transition(ctx context.Context, userID int64, fn func(*Session)) error {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		return err
	}
	fn(&sess)
	return m.store.Save(ctx, userID, sess)
}

// Clear removes the session entirely, returning the user to idle.
func (m *Manager) Clear(ctx context.Context, userID int64) error {
	return m.store.Delete(ctx, userID)
}

// Step returns the user's current step, StepIdle on any store failure.
func (m *Manager) Step(ctx context.Context, userID int64) Step {
	sess, err := m.Session(ctx, userID)
	if err != nil {
		logger.TG.Warn("session load failed",
			slog.String("event", "fsm.load"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return StepIdle
	}
	return sess.Step
}

// InProgress reports whether the user is mid-wizard.
func (m *Manager) InProgress(userID int64) bool {
	return m.Step(context.Background(), userID) != StepIdle
}

// ManagerHandler executes the handler registered for the user's current step.
func (m *Manager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.Step(context.Background(), userID)

	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()

	logger.TG.Debug("fsm dispatch",
		slog.String("event", "fsm.dispatch"),
		slog.Int64("user_id", userID),
		slog.String("step", string(current)),
		slog.Bool("handled", ok),
	)
	if !ok {
		return nil
	}
	return handler(c)
}
