package flow

import (
	"errors"
	"strings"

	"peredachka-bot/internal/logger"
	"peredachka-bot/internal/models"
	"peredachka-bot/internal/telegram/callbacks"
	tghelpers "peredachka-bot/internal/telegram/helpers"
	"peredachka-bot/internal/telegram/keyboard"
	"peredachka-bot/internal/telegram/state"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func chatID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return 0
}

// repliedToPrompt reports whether the inbound text is a swipe-reply to the
// active prompt. Anything else gets the transient hint and is ignored.
func repliedToPrompt(c tele.Context, sess state.Session) bool {
	msg := c.Message()
	if msg == nil || msg.ReplyTo == nil {
		return false
	}
	if sess.Form.PromptMessageID == 0 {
		return true
	}
	return msg.ReplyTo.ID == sess.Form.PromptMessageID
}

func (f *Flow) rejectWithHint(c tele.Context) error {
	return f.msg.SendEphemeral(c, msgSwipeHint, hintTTL)
}

// consumeInput deletes the user's raw message and the prompt it answered,
// keeping the chat clean around the in-place summary.
func (f *Flow) consumeInput(c tele.Context, sess state.Session) {
	ch := chatID(c)
	if msg := c.Message(); msg != nil {
		if err := f.msg.Delete(c, ch, msg.ID); err != nil {
			f.logCleanupFailure(c, "input", err)
		}
	}
	if sess.Form.PromptMessageID != 0 {
		if err := f.msg.Delete(c, ch, sess.Form.PromptMessageID); err != nil {
			f.logCleanupFailure(c, "prompt", err)
		}
	}
}

func (f *Flow) logCleanupFailure(c tele.Context, kind string, err error) {
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.FLOW, slog.LevelWarn, "cleanup.failed",
		slog.String("status", "fail"),
		slog.String("kind", kind),
		slog.String("err", err.Error()),
	)
}

func (f *Flow) editSummary(c tele.Context, sess state.Session, text string, markup *tele.ReplyMarkup) error {
	if sess.Form.SummaryMessageID == 0 {
		return nil
	}
	return f.msg.Edit(c, sess.Form.SummaryChatID, sess.Form.SummaryMessageID, text, markup)
}

func (f *Flow) logStep(c tele.Context, step state.Step) {
	ctx := tghelpers.BuildContext(c)
	logger.LogEvent(ctx, logger.FLOW, slog.LevelDebug, "step.advanced",
		slog.String("status", "ok"),
		slog.String("step", string(step)),
		slog.Int64("user_id", c.Sender().ID),
	)
}

// handleRole creates the role profile and opens the route questions. The
// keyboard message is rewritten into the running summary.
func (f *Flow) handleRole(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Step != state.StepRole {
		return nil
	}

	payload, ok := callbacks.PayloadString(c)
	if !ok {
		return f.msg.SendEphemeral(c, msgIdleFallback, hintTTL)
	}
	role, err := models.ParseRole(payload)
	if err != nil {
		return f.msg.SendEphemeral(c, msgIdleFallback, hintTTL)
	}

	user, err := f.currentUser(c)
	if err != nil {
		return err
	}
	switch role {
	case models.RoleSender:
		_, _, err = f.store.GetOrCreateSender(ctx, user.ID)
	case models.RoleCourier:
		_, _, err = f.store.GetOrCreateCourier(ctx, user.ID)
	}
	if err != nil {
		return err
	}

	form := state.Form{Role: role}

	// Rewrite the role keyboard message into the summary when possible.
	summaryID := 0
	if cb := c.Callback(); cb != nil && cb.Message != nil {
		summaryID = cb.Message.ID
		if err := f.msg.Edit(c, chatID(c), summaryID, renderSummary(&form), nil); err != nil {
			summaryID = 0
		}
	}
	if summaryID == 0 {
		summaryID, err = f.msg.Send(c, renderSummary(&form), nil)
		if err != nil {
			return err
		}
	}

	promptID, err := f.msg.Send(c, msgPromptFrom, keyboard.ForceReply())
	if err != nil {
		return err
	}

	err = f.fsm.Put(ctx, userID, state.Session{
		Step: state.StepCityFrom,
		Form: state.Form{
			Role:             role,
			SummaryMessageID: summaryID,
			SummaryChatID:    chatID(c),
			PromptMessageID:  promptID,
		},
	})
	if err != nil {
		return err
	}
	f.logStep(c, state.StepCityFrom)
	return nil
}

// handleCityFrom accepts any replied text as the origin city label.
func (f *Flow) handleCityFrom(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if !repliedToPrompt(c, sess) {
		return f.rejectWithHint(c)
	}
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return f.rejectWithHint(c)
	}

	user, err := f.currentUser(c)
	if err != nil {
		return err
	}
	city, _, err := f.store.GetOrCreateUserCity(ctx, name, user.ID)
	if err != nil {
		return err
	}

	f.consumeInput(c, sess)

	sess.Form.OriginID = city.ID
	sess.Form.OriginName = city.Name
	if err := f.editSummary(c, sess, renderSummary(&sess.Form), nil); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}

	promptID, err := f.msg.Send(c, msgPromptTo, keyboard.ForceReply())
	if err != nil {
		return err
	}
	sess.Step = state.StepCityTo
	sess.Form.PromptMessageID = promptID
	if err := f.fsm.Put(ctx, userID, sess); err != nil {
		return err
	}
	f.logStep(c, state.StepCityTo)
	return nil
}

// handleCityTo accepts the destination label and branches on role for dates.
func (f *Flow) handleCityTo(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if !repliedToPrompt(c, sess) {
		return f.rejectWithHint(c)
	}
	name := strings.TrimSpace(c.Text())
	if name == "" {
		return f.rejectWithHint(c)
	}

	user, err := f.currentUser(c)
	if err != nil {
		return err
	}
	city, _, err := f.store.GetOrCreateUserCity(ctx, name, user.ID)
	if err != nil {
		return err
	}
	if city.ID == sess.Form.OriginID {
		_, err := f.msg.Send(c, msgSameCity, nil)
		return err
	}

	f.consumeInput(c, sess)

	sess.Form.DestinationID = city.ID
	sess.Form.DestinationName = city.Name
	if err := f.editSummary(c, sess, renderSummary(&sess.Form), nil); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}

	nextStep := state.StepDateRange
	prompt := msgPromptRange
	if sess.Form.Role == models.RoleCourier {
		nextStep = state.StepDate
		prompt = msgPromptDate
	}
	promptID, err := f.msg.Send(c, prompt, keyboard.ForceReply())
	if err != nil {
		return err
	}
	sess.Step = nextStep
	sess.Form.PromptMessageID = promptID
	if err := f.fsm.Put(ctx, userID, sess); err != nil {
		return err
	}
	f.logStep(c, nextStep)
	return nil
}

// handleTravelDate validates the courier's single travel date.
func (f *Flow) handleTravelDate(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if !repliedToPrompt(c, sess) {
		return f.rejectWithHint(c)
	}

	day, ok := tghelpers.ParseWizardDate(c.Text())
	if !ok {
		_, err := f.msg.Send(c, msgBadDate, nil)
		return err
	}
	if err := validateTravelDate(f.now(), day); err != nil {
		_, err := f.msg.Send(c, msgBadDate, nil)
		return err
	}

	f.consumeInput(c, sess)
	sess.Form.TravelDate = day
	return f.openBaggage(c, sess)
}

// handleDateRange validates the sender's acceptable window.
func (f *Flow) handleDateRange(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if !repliedToPrompt(c, sess) {
		return f.rejectWithHint(c)
	}

	from, to, ok := tghelpers.ParseWizardDateRange(c.Text())
	if !ok {
		_, err := f.msg.Send(c, msgBadRange, nil)
		return err
	}
	if err := validateDateRange(f.now(), from, to); err != nil {
		_, err := f.msg.Send(c, msgBadRange, nil)
		return err
	}

	f.consumeInput(c, sess)
	sess.Form.DateFrom = from
	sess.Form.DateTo = to
	return f.openBaggage(c, sess)
}

// openBaggage updates the summary with dates and shows the baggage keyboard.
func (f *Flow) openBaggage(c tele.Context, sess state.Session) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	if err := f.editSummary(c, sess, renderSummary(&sess.Form), nil); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}
	promptID, err := f.msg.Send(c, msgPromptBaggage, baggageKeyboard())
	if err != nil {
		return err
	}
	sess.Step = state.StepBaggage
	sess.Form.PromptMessageID = promptID
	if err := f.fsm.Put(ctx, userID, sess); err != nil {
		return err
	}
	f.logStep(c, state.StepBaggage)
	return nil
}

// handleBaggage toggles one kind into the accumulated set. Duplicate presses
// surface a transient notice and leave the set unchanged.
func (f *Flow) handleBaggage(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Step != state.StepBaggage {
		return nil
	}

	payload, ok := callbacks.PayloadString(c)
	if !ok {
		return nil
	}
	kind, err := models.ParseBaggageKind(payload)
	if err != nil {
		return nil
	}
	if !sess.Form.AddBaggage(kind) {
		return f.msg.SendEphemeral(c, msgBaggageDup, hintTTL)
	}

	if err := f.fsm.Transition(ctx, userID, func(s *state.Session) {
		s.Form.AddBaggage(kind)
	}); err != nil {
		return err
	}
	if err := f.editSummary(c, sess, renderSummary(&sess.Form), nil); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}
	return nil
}

// handleBaggageDone closes baggage selection once at least one kind is set.
func (f *Flow) handleBaggageDone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Step != state.StepBaggage {
		return nil
	}
	if len(sess.Form.Baggage) == 0 {
		return f.msg.SendEphemeral(c, msgBaggageEmpty, hintTTL)
	}

	if sess.Form.PromptMessageID != 0 {
		if err := f.msg.Delete(c, chatID(c), sess.Form.PromptMessageID); err != nil {
			f.logCleanupFailure(c, "baggage_keyboard", err)
		}
	}

	promptID, err := f.msg.Send(c, msgPromptComment, keyboard.ForceReply())
	if err != nil {
		return err
	}
	sess.Step = state.StepComment
	sess.Form.PromptMessageID = promptID
	if err := f.fsm.Put(ctx, userID, sess); err != nil {
		return err
	}
	f.logStep(c, state.StepComment)
	return nil
}

// handleComment stores the free-text comment verbatim and asks to confirm.
func (f *Flow) handleComment(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if !repliedToPrompt(c, sess) {
		return f.rejectWithHint(c)
	}

	sess.Form.Comment = c.Text()
	f.consumeInput(c, sess)
	sess.Form.PromptMessageID = 0

	if err := f.editSummary(c, sess, renderConfirmation(&sess.Form), confirmKeyboard()); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}
	sess.Step = state.StepConfirm
	if err := f.fsm.Put(ctx, userID, sess); err != nil {
		return err
	}
	f.logStep(c, state.StepConfirm)
	return nil
}

// handleEdit restarts data entry from role selection, reusing the summary
// message as the role prompt.
func (f *Flow) handleEdit(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Step != state.StepConfirm {
		return nil
	}

	if err := f.editSummary(c, sess, msgChooseRole, roleKeyboard()); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}
	return f.fsm.Put(ctx, userID, state.Session{Step: state.StepRole})
}

// handleConfirm persists the request and delivers counterpart matches.
func (f *Flow) handleConfirm(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID

	sess, err := f.fsm.Session(ctx, userID)
	if err != nil {
		return err
	}
	if sess.Step != state.StepConfirm {
		return nil
	}

	if !sess.Form.Role.Valid() {
		return f.missingProfile(c, errors.New("role not selected"))
	}

	user, err := f.currentUser(c)
	if err != nil {
		return err
	}

	req := models.Request{
		OriginID:      sess.Form.OriginID,
		DestinationID: sess.Form.DestinationID,
		BaggageKinds:  models.JoinBaggage(sess.Form.Baggage),
		Comment:       sess.Form.Comment,
		Status:        models.StatusNew,
	}
	switch sess.Form.Role {
	case models.RoleSender:
		profile, perr := f.store.SenderByUserID(ctx, user.ID)
		if perr != nil {
			return f.missingProfile(c, perr)
		}
		req.SenderID.Int64, req.SenderID.Valid = profile.ID, true
		req.DateFrom.Time, req.DateFrom.Valid = sess.Form.DateFrom, true
		req.DateTo.Time, req.DateTo.Valid = sess.Form.DateTo, true
	case models.RoleCourier:
		profile, perr := f.store.CourierByUserID(ctx, user.ID)
		if perr != nil {
			return f.missingProfile(c, perr)
		}
		req.CourierID.Int64, req.CourierID.Valid = profile.ID, true
		req.TravelDate.Time, req.TravelDate.Valid = sess.Form.TravelDate, true
	}

	if err := f.store.CreateRequest(ctx, &req); err != nil {
		return err
	}
	logger.LogEvent(ctx, logger.FLOW, slog.LevelInfo, "request.finalized",
		slog.String("status", "ok"),
		slog.Int64("request_id", req.ID),
		slog.String("role", string(sess.Form.Role)),
		slog.String("origin", logger.Sanitize(sess.Form.OriginName)),
		slog.String("destination", logger.Sanitize(sess.Form.DestinationName)),
	)

	if err := f.editSummary(c, sess, renderSummary(&sess.Form)+"\n\n"+msgSaved, nil); err != nil {
		f.logCleanupFailure(c, "summary", err)
	}

	if err := f.deliverMatches(c, sess.Form, req); err != nil {
		logger.LogEvent(ctx, logger.MATCH, slog.LevelError, "match.failed",
			slog.String("status", "fail"),
			slog.Int64("request_id", req.ID),
			slog.String("err", err.Error()),
		)
	}

	return f.fsm.Clear(ctx, userID)
}

// missingProfile closes the gap where a role profile vanished between role
// selection and confirmation: the user gets a corrective prompt instead of a
// silent no-op.
func (f *Flow) missingProfile(c tele.Context, cause error) error {
	ctx := tghelpers.BuildContext(c)
	userID := c.Sender().ID
	logger.LogEvent(ctx, logger.FLOW, slog.LevelWarn, "profile.missing",
		slog.String("status", "fail"),
		slog.Int64("user_id", userID),
		slog.String("err", cause.Error()),
	)
	if err := f.fsm.Clear(ctx, userID); err != nil {
		return err
	}
	_, err := f.msg.Send(c, msgProfileMissing, nil)
	return err
}
