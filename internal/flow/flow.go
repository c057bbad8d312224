// Package flow implements the request registration wizard: a linear
// conversation that takes a user from role selection through route, dates,
// baggage and comment to a stored request, then delivers counterpart matches.
package flow

import (
	"time"

	"peredachka-bot/internal/logger"
	"peredachka-bot/internal/models"
	"peredachka-bot/internal/storage"
	tg "peredachka-bot/internal/telegram"
	"peredachka-bot/internal/telegram/commands"
	tghelpers "peredachka-bot/internal/telegram/helpers"
	"peredachka-bot/internal/telegram/keyboard"
	"peredachka-bot/internal/telegram/state"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// hintTTL is how long transient notices stay before auto-deletion.
const hintTTL = 10 * time.Second

// Flow owns the wizard handlers and their dependencies.
type Flow struct {
	store storage.Store
	fsm   *state.Manager
	msg   Messenger

	// now is injectable for date-window tests.
	now func() time.Time
}

// New wires a Flow over its collaborators.
func New(store storage.Store, fsm *state.Manager, msg Messenger) *Flow {
	return &Flow{
		store: store,
		fsm:   fsm,
		msg:   msg,
		now:   time.Now,
	}
}

// Register binds commands, callbacks and per-step text handlers.
func (f *Flow) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     f.handleStart,
		Description: "Создать заявку",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     f.handleCancel,
		Description: "Отменить текущую заявку",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     f.handleStats,
		Description: "Статистика бота",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbRole, f.handleRole)
	_ = reg.RegisterCallback(cbBaggage, f.handleBaggage)
	_ = reg.RegisterCallback(cbBaggageDone, f.handleBaggageDone)
	_ = reg.RegisterCallback(cbConfirm, f.handleConfirm)
	_ = reg.RegisterCallback(cbEdit, f.handleEdit)

	f.fsm.Handle(state.StepCityFrom, f.handleCityFrom)
	f.fsm.Handle(state.StepCityTo, f.handleCityTo)
	f.fsm.Handle(state.StepDate, f.handleTravelDate)
	f.fsm.Handle(state.StepDateRange, f.handleDateRange)
	f.fsm.Handle(state.StepComment, f.handleComment)

	// Button-only steps: free text gets the transient hint instead of a
	// silent drop.
	for _, step := range []state.Step{state.StepRole, state.StepBaggage, state.StepConfirm} {
		f.fsm.Handle(step, f.rejectWithHint)
	}

	reg.SetTextFallback(func(c tele.Context) error {
		return f.msg.SendEphemeral(c, msgIdleFallback, hintTTL)
	})
}

func roleKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: models.RoleSender.Label(), Unique: cbRole, Data: string(models.RoleSender)},
		{Text: models.RoleCourier.Label(), Unique: cbRole, Data: string(models.RoleCourier)},
	})
}

func baggageKeyboard() *tele.ReplyMarkup {
	kinds := models.BaggageKinds()
	buttons := make([]keyboard.InlineBtn, 0, len(kinds))
	for _, k := range kinds {
		buttons = append(buttons, keyboard.InlineBtn{Text: k.Label(), Unique: cbBaggage, Data: string(k)})
	}
	markup := keyboard.InlineButtonsNPerRow(buttons, 2)
	done := keyboard.InlineButtons([]keyboard.InlineBtn{{Text: "✅ Готово", Unique: cbBaggageDone}})
	markup.InlineKeyboard = append(markup.InlineKeyboard, done.InlineKeyboard...)
	return markup
}

func confirmKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "✅ Подтвердить", Unique: cbConfirm},
			{Text: "✏️ Изменить", Unique: cbEdit},
		},
	)
}

// currentUser upserts the User row for the update's sender.
func (f *Flow) currentUser(c tele.Context) (models.User, error) {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()
	name := sender.FirstName
	if sender.LastName != "" {
		name = name + " " + sender.LastName
	}
	if name == "" {
		name = sender.Username
	}
	user, created, err := f.store.GetOrCreateUser(ctx, sender.ID, name)
	if err != nil {
		return models.User{}, err
	}
	if created {
		logger.LogEvent(ctx, logger.FLOW, slog.LevelInfo, "user.registered",
			slog.String("status", "ok"),
			slog.Int64("user_id", user.ID),
		)
	}
	return user, nil
}

// handleStart upserts the user and opens the wizard at role selection.
func (f *Flow) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if _, err := f.currentUser(c); err != nil {
		return err
	}

	if err := f.fsm.Put(ctx, c.Sender().ID, state.Session{Step: state.StepRole}); err != nil {
		return err
	}
	_, err := f.msg.Send(c, msgChooseRole, roleKeyboard())
	return err
}

// handleCancel drops the in-progress conversation; stored requests are kept.
func (f *Flow) handleCancel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	if !f.fsm.InProgress(userID) {
		_, err := f.msg.Send(c, msgNothingCancel, nil)
		return err
	}
	if err := f.fsm.Clear(ctx, userID); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.FLOW, slog.LevelInfo, "wizard.cancelled",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
	)
	_, err := f.msg.Send(c, msgCancelled, nil)
	return err
}

// handleStats serves read-only aggregates; admin gating happens in routing.
func (f *Flow) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	st, err := f.store.Stats(ctx)
	if err != nil {
		return err
	}
	_, err = f.msg.Send(c, renderStats(st), nil)
	return err
}
