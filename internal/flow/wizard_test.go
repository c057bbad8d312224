package flow

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"peredachka-bot/internal/models"
	"peredachka-bot/internal/storage"
	"peredachka-bot/internal/telegram/state"

	tele "gopkg.in/telebot.v4"
)

// fakeStore keeps everything in maps; get-or-create semantics mirror the
// Postgres implementation.
type fakeStore struct {
	nextID    int64
	users     map[int64]models.User
	senders   map[int64]models.Sender
	couriers  map[int64]models.Courier
	cities    map[string]models.UserCity
	countries map[string]models.Country
	canonical map[string]models.City
	requests  []models.Request
	matches   []models.Match
	stats     storage.Stats
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]models.User),
		senders:   make(map[int64]models.Sender),
		couriers:  make(map[int64]models.Courier),
		cities:    make(map[string]models.UserCity),
		countries: make(map[string]models.Country),
		canonical: make(map[string]models.City),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) GetOrCreateUser(_ context.Context, tgID int64, name string) (models.User, bool, error) {
	if u, ok := s.users[tgID]; ok {
		return u, false, nil
	}
	u := models.User{ID: s.id(), TgID: tgID, Name: name}
	s.users[tgID] = u
	return u, true, nil
}

func (s *fakeStore) GetOrCreateSender(_ context.Context, userID int64) (models.Sender, bool, error) {
	if p, ok := s.senders[userID]; ok {
		return p, false, nil
	}
	p := models.Sender{ID: s.id(), UserID: userID}
	s.senders[userID] = p
	return p, true, nil
}

func (s *fakeStore) GetOrCreateCourier(_ context.Context, userID int64) (models.Courier, bool, error) {
	if p, ok := s.couriers[userID]; ok {
		return p, false, nil
	}
	p := models.Courier{ID: s.id(), UserID: userID}
	s.couriers[userID] = p
	return p, true, nil
}

func (s *fakeStore) SenderByUserID(_ context.Context, userID int64) (models.Sender, error) {
	if p, ok := s.senders[userID]; ok {
		return p, nil
	}
	return models.Sender{}, storage.ErrNotFound
}

func (s *fakeStore) CourierByUserID(_ context.Context, userID int64) (models.Courier, error) {
	if p, ok := s.couriers[userID]; ok {
		return p, nil
	}
	return models.Courier{}, storage.ErrNotFound
}

func (s *fakeStore) GetOrCreateUserCity(_ context.Context, name string, createdByID int64) (models.UserCity, bool, error) {
	if c, ok := s.cities[name]; ok {
		return c, false, nil
	}
	c := models.UserCity{ID: s.id(), Name: name, CreatedByID: createdByID}
	s.cities[name] = c
	return c, true, nil
}

func (s *fakeStore) GetOrCreateCountry(_ context.Context, name string) (models.Country, bool, error) {
	if c, ok := s.countries[name]; ok {
		return c, false, nil
	}
	c := models.Country{ID: s.id(), Name: name}
	s.countries[name] = c
	return c, true, nil
}

func (s *fakeStore) GetOrCreateCity(_ context.Context, name string, countryID int64) (models.City, bool, error) {
	if c, ok := s.canonical[name]; ok {
		return c, false, nil
	}
	c := models.City{ID: s.id(), Name: name, CountryID: countryID}
	s.canonical[name] = c
	return c, true, nil
}

func (s *fakeStore) CreateRequest(_ context.Context, req *models.Request) error {
	req.ID = s.id()
	req.CreatedAt = time.Now()
	s.requests = append(s.requests, *req)
	return nil
}

func (s *fakeStore) MatchesForSender(context.Context, int64, int64, time.Time, time.Time) ([]models.Match, error) {
	return s.matches, nil
}

func (s *fakeStore) MatchesForCourier(context.Context, int64, int64, time.Time) ([]models.Match, error) {
	return s.matches, nil
}

func (s *fakeStore) Stats(context.Context) (storage.Stats, error) {
	return s.stats, nil
}

var _ storage.Store = (*fakeStore)(nil)

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

type editedMessage struct {
	messageID int
	text      string
	markup    *tele.ReplyMarkup
}

// fakeMessenger records outbound traffic and hands out sequential message IDs.
type fakeMessenger struct {
	nextID     int
	sent       []sentMessage
	edits      []editedMessage
	deleted    []int
	ephemerals []string
}

func (m *fakeMessenger) Send(_ tele.Context, text string, markup *tele.ReplyMarkup) (int, error) {
	m.nextID++
	m.sent = append(m.sent, sentMessage{text: text, markup: markup})
	return m.nextID, nil
}

func (m *fakeMessenger) Edit(_ tele.Context, _ int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	m.edits = append(m.edits, editedMessage{messageID: messageID, text: text, markup: markup})
	return nil
}

func (m *fakeMessenger) Delete(_ tele.Context, _ int64, messageID int) error {
	m.deleted = append(m.deleted, messageID)
	return nil
}

func (m *fakeMessenger) SendEphemeral(_ tele.Context, text string, _ time.Duration) error {
	m.ephemerals = append(m.ephemerals, text)
	return nil
}

func (m *fakeMessenger) lastSent(t *testing.T) sentMessage {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("no messages sent")
	}
	return m.sent[len(m.sent)-1]
}

// fakeTeleContext provides just enough of tele.Context for the handlers.
// Unimplemented methods panic via the embedded nil interface.
type fakeTeleContext struct {
	tele.Context
	user     *tele.User
	chat     *tele.Chat
	message  *tele.Message
	callback *tele.Callback
	vals     map[string]any
}

func (f *fakeTeleContext) Sender() *tele.User        { return f.user }
func (f *fakeTeleContext) Chat() *tele.Chat          { return f.chat }
func (f *fakeTeleContext) Message() *tele.Message    { return f.message }
func (f *fakeTeleContext) Callback() *tele.Callback  { return f.callback }
func (f *fakeTeleContext) Update() tele.Update       { return tele.Update{} }
func (f *fakeTeleContext) Text() string {
	if f.message == nil {
		return ""
	}
	return f.message.Text
}

func (f *fakeTeleContext) Get(key string) any { return f.vals[key] }

func (f *fakeTeleContext) Set(key string, v any) {
	if f.vals == nil {
		f.vals = make(map[string]any)
	}
	f.vals[key] = v
}

type harness struct {
	store *fakeStore
	msg   *fakeMessenger
	fsm   *state.Manager
	flow  *Flow
	user  *tele.User
	chat  *tele.Chat
}

func newHarness() *harness {
	store := newFakeStore()
	msg := &fakeMessenger{}
	fsm := state.NewManager(state.NewMemoryStore())
	fl := New(store, fsm, msg)
	fl.now = func() time.Time {
		return time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	}
	return &harness{
		store: store,
		msg:   msg,
		fsm:   fsm,
		flow:  fl,
		user:  &tele.User{ID: 777, FirstName: "Ivan", LastName: "Petrov"},
		chat:  &tele.Chat{ID: 777},
	}
}

func (h *harness) session(t *testing.T) state.Session {
	t.Helper()
	sess, err := h.fsm.Session(context.Background(), h.user.ID)
	if err != nil {
		t.Fatalf("session load: %v", err)
	}
	return sess
}

func (h *harness) textCtx(text string, replyTo int) *fakeTeleContext {
	msg := &tele.Message{ID: 9000 + len(h.msg.sent), Text: text, Chat: h.chat, Sender: h.user}
	if replyTo != 0 {
		msg.ReplyTo = &tele.Message{ID: replyTo}
	}
	return &fakeTeleContext{user: h.user, chat: h.chat, message: msg}
}

func (h *harness) callbackCtx(unique, payload string, messageID int) *fakeTeleContext {
	data := unique
	if payload != "" {
		data += "|" + payload
	}
	return &fakeTeleContext{
		user: h.user,
		chat: h.chat,
		callback: &tele.Callback{
			Data:    data,
			Message: &tele.Message{ID: messageID, Chat: h.chat},
		},
	}
}

// reply builds a text update swiped onto the current force-reply prompt.
func (h *harness) reply(t *testing.T, text string) *fakeTeleContext {
	t.Helper()
	sess := h.session(t)
	if sess.Form.PromptMessageID == 0 {
		t.Fatal("no active prompt to reply to")
	}
	return h.textCtx(text, sess.Form.PromptMessageID)
}

func (h *harness) mustStep(t *testing.T, want state.Step) {
	t.Helper()
	if got := h.session(t).Step; got != want {
		t.Fatalf("step = %s, want %s", got, want)
	}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func run(t *testing.T, name string, fn func() error) {
	t.Helper()
	if err := fn(); err != nil {
		t.Fatalf("%s: %v", name, err)
	}
}

func TestWizardSenderFullPath(t *testing.T) {
	h := newHarness()

	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	h.mustStep(t, state.StepRole)
	if got := h.msg.lastSent(t); got.text != msgChooseRole || got.markup == nil {
		t.Fatalf("start reply = %+v", got)
	}

	roleMsgID := h.msg.nextID
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleSender), roleMsgID))
	})
	h.mustStep(t, state.StepCityFrom)
	if _, ok := h.store.senders[h.store.users[h.user.ID].ID]; !ok {
		t.Fatal("sender profile not created on role selection")
	}
	sess := h.session(t)
	if sess.Form.SummaryMessageID != roleMsgID {
		t.Fatalf("summary message = %d, want %d", sess.Form.SummaryMessageID, roleMsgID)
	}

	run(t, "city_from", func() error { return h.flow.handleCityFrom(h.reply(t, "Paris")) })
	h.mustStep(t, state.StepCityTo)

	run(t, "city_to", func() error { return h.flow.handleCityTo(h.reply(t, "Berlin")) })
	h.mustStep(t, state.StepDateRange)
	if got := h.msg.lastSent(t).text; got != msgPromptRange {
		t.Fatalf("sender asked %q, want range prompt", got)
	}

	// A date outside the acceptance window must not advance the wizard.
	run(t, "bad_range", func() error { return h.flow.handleDateRange(h.reply(t, "01.01.2030")) })
	h.mustStep(t, state.StepDateRange)
	if got := h.msg.lastSent(t).text; got != msgBadRange {
		t.Fatalf("rejection reply = %q", got)
	}

	run(t, "range", func() error {
		return h.flow.handleDateRange(h.reply(t, "15.01.2026 - 20.01.2026"))
	})
	h.mustStep(t, state.StepBaggage)

	run(t, "baggage", func() error {
		return h.flow.handleBaggage(h.callbackCtx(cbBaggage, string(models.BaggageUsual), 0))
	})
	if got := h.session(t).Form.Baggage; len(got) != 1 || got[0] != models.BaggageUsual {
		t.Fatalf("baggage = %v", got)
	}

	run(t, "baggage_done", func() error {
		return h.flow.handleBaggageDone(h.callbackCtx(cbBaggageDone, "", 0))
	})
	h.mustStep(t, state.StepComment)

	run(t, "comment", func() error { return h.flow.handleComment(h.reply(t, "Хрупкое, не кантовать")) })
	h.mustStep(t, state.StepConfirm)
	lastEdit := h.msg.edits[len(h.msg.edits)-1]
	if lastEdit.markup == nil || !strings.Contains(lastEdit.text, "Всё верно?") {
		t.Fatalf("confirmation edit = %+v", lastEdit)
	}

	run(t, "confirm", func() error { return h.flow.handleConfirm(h.callbackCtx(cbConfirm, "", 0)) })

	if len(h.store.requests) != 1 {
		t.Fatalf("stored %d requests, want 1", len(h.store.requests))
	}
	req := h.store.requests[0]
	if !req.SenderID.Valid || req.CourierID.Valid {
		t.Fatalf("request ownership: sender=%v courier=%v", req.SenderID, req.CourierID)
	}
	if req.Status != models.StatusNew {
		t.Fatalf("status = %s, want %s", req.Status, models.StatusNew)
	}
	if req.OriginID != h.store.cities["Paris"].ID || req.DestinationID != h.store.cities["Berlin"].ID {
		t.Fatalf("route = %d -> %d", req.OriginID, req.DestinationID)
	}
	if !req.DateFrom.Valid || !req.DateTo.Valid || req.TravelDate.Valid {
		t.Fatalf("date shape: from=%v to=%v travel=%v", req.DateFrom, req.DateTo, req.TravelDate)
	}
	if req.BaggageKinds != string(models.BaggageUsual) {
		t.Fatalf("baggage kinds = %q", req.BaggageKinds)
	}
	if req.Comment != "Хрупкое, не кантовать" {
		t.Fatalf("comment = %q", req.Comment)
	}

	// Session is cleared and the no-match notice delivered.
	h.mustStep(t, state.StepIdle)
	if got := h.msg.lastSent(t).text; got != msgNoMatches {
		t.Fatalf("post-confirm message = %q", got)
	}
}

func TestWizardCourierSingleDate(t *testing.T) {
	h := newHarness()

	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleCourier), h.msg.nextID))
	})
	run(t, "city_from", func() error { return h.flow.handleCityFrom(h.reply(t, "Москва")) })
	run(t, "city_to", func() error { return h.flow.handleCityTo(h.reply(t, "Ереван")) })

	h.mustStep(t, state.StepDate)
	if got := h.msg.lastSent(t).text; got != msgPromptDate {
		t.Fatalf("courier asked %q, want single-date prompt", got)
	}

	run(t, "date", func() error { return h.flow.handleTravelDate(h.reply(t, "15.01.2026")) })
	h.mustStep(t, state.StepBaggage)

	run(t, "baggage", func() error {
		return h.flow.handleBaggage(h.callbackCtx(cbBaggage, string(models.BaggageDocument), 0))
	})
	run(t, "baggage_done", func() error {
		return h.flow.handleBaggageDone(h.callbackCtx(cbBaggageDone, "", 0))
	})
	run(t, "comment", func() error { return h.flow.handleComment(h.reply(t, "-")) })
	run(t, "confirm", func() error { return h.flow.handleConfirm(h.callbackCtx(cbConfirm, "", 0)) })

	if len(h.store.requests) != 1 {
		t.Fatalf("stored %d requests, want 1", len(h.store.requests))
	}
	req := h.store.requests[0]
	if !req.CourierID.Valid || req.SenderID.Valid {
		t.Fatalf("request ownership: sender=%v courier=%v", req.SenderID, req.CourierID)
	}
	if !req.TravelDate.Valid || req.DateFrom.Valid || req.DateTo.Valid {
		t.Fatalf("date shape: from=%v to=%v travel=%v", req.DateFrom, req.DateTo, req.TravelDate)
	}
	want := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.Local)
	if !req.TravelDate.Time.Equal(want) {
		t.Fatalf("travel date = %v, want %v", req.TravelDate.Time, want)
	}
}

func TestWizardDuplicateBaggageKeepsSet(t *testing.T) {
	h := newHarness()
	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleCourier), h.msg.nextID))
	})
	run(t, "city_from", func() error { return h.flow.handleCityFrom(h.reply(t, "A")) })
	run(t, "city_to", func() error { return h.flow.handleCityTo(h.reply(t, "B")) })
	run(t, "date", func() error { return h.flow.handleTravelDate(h.reply(t, "15.01.2026")) })

	press := func() error {
		return h.flow.handleBaggage(h.callbackCtx(cbBaggage, string(models.BaggageUsual), 0))
	}
	run(t, "first press", press)
	run(t, "second press", press)

	if got := h.session(t).Form.Baggage; len(got) != 1 {
		t.Fatalf("baggage = %v, want single entry", got)
	}
	if len(h.msg.ephemerals) == 0 || h.msg.ephemerals[len(h.msg.ephemerals)-1] != msgBaggageDup {
		t.Fatalf("ephemerals = %v, want duplicate notice", h.msg.ephemerals)
	}
}

func TestWizardBaggageDoneRequiresSelection(t *testing.T) {
	h := newHarness()
	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleCourier), h.msg.nextID))
	})
	run(t, "city_from", func() error { return h.flow.handleCityFrom(h.reply(t, "A")) })
	run(t, "city_to", func() error { return h.flow.handleCityTo(h.reply(t, "B")) })
	run(t, "date", func() error { return h.flow.handleTravelDate(h.reply(t, "15.01.2026")) })

	run(t, "done", func() error { return h.flow.handleBaggageDone(h.callbackCtx(cbBaggageDone, "", 0)) })

	h.mustStep(t, state.StepBaggage)
	if len(h.msg.ephemerals) == 0 || h.msg.ephemerals[len(h.msg.ephemerals)-1] != msgBaggageEmpty {
		t.Fatalf("ephemerals = %v, want empty-set notice", h.msg.ephemerals)
	}
}

func TestWizardTextWithoutReplyGetsHint(t *testing.T) {
	h := newHarness()
	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleSender), h.msg.nextID))
	})

	run(t, "loose text", func() error { return h.flow.handleCityFrom(h.textCtx("Paris", 0)) })

	h.mustStep(t, state.StepCityFrom)
	if len(h.msg.ephemerals) != 1 || h.msg.ephemerals[0] != msgSwipeHint {
		t.Fatalf("ephemerals = %v, want swipe hint", h.msg.ephemerals)
	}
	if len(h.store.cities) != 0 {
		t.Fatal("loose text must not create a city")
	}
}

func TestWizardSameCityRejected(t *testing.T) {
	h := newHarness()
	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "role", func() error {
		return h.flow.handleRole(h.callbackCtx(cbRole, string(models.RoleSender), h.msg.nextID))
	})
	run(t, "city_from", func() error { return h.flow.handleCityFrom(h.reply(t, "Paris")) })

	run(t, "same city", func() error { return h.flow.handleCityTo(h.reply(t, "Paris")) })

	h.mustStep(t, state.StepCityTo)
	if got := h.msg.lastSent(t).text; got != msgSameCity {
		t.Fatalf("reply = %q, want same-city rejection", got)
	}
}

func TestWizardCancel(t *testing.T) {
	h := newHarness()
	run(t, "start", func() error { return h.flow.handleStart(h.textCtx("/start", 0)) })
	run(t, "cancel", func() error { return h.flow.handleCancel(h.textCtx("/cancel", 0)) })

	h.mustStep(t, state.StepIdle)
	if got := h.msg.lastSent(t).text; got != msgCancelled {
		t.Fatalf("reply = %q, want cancel confirmation", got)
	}

	run(t, "cancel idle", func() error { return h.flow.handleCancel(h.textCtx("/cancel", 0)) })
	if got := h.msg.lastSent(t).text; got != msgNothingCancel {
		t.Fatalf("reply = %q, want nothing-to-cancel", got)
	}
}

func TestWizardConfirmWithoutProfile(t *testing.T) {
	h := newHarness()

	if _, _, err := h.store.GetOrCreateUser(context.Background(), h.user.ID, "Ivan Petrov"); err != nil {
		t.Fatal(err)
	}

	sess := state.Session{
		Step: state.StepConfirm,
		Form: state.Form{
			Role:          models.RoleSender,
			OriginID:      1,
			DestinationID: 2,
			DateFrom:      day(2026, time.January, 15),
			DateTo:        day(2026, time.January, 20),
			Baggage:       []models.BaggageKind{models.BaggageUsual},
		},
	}
	if err := h.fsm.Put(context.Background(), h.user.ID, sess); err != nil {
		t.Fatal(err)
	}

	run(t, "confirm", func() error { return h.flow.handleConfirm(h.callbackCtx(cbConfirm, "", 0)) })

	if len(h.store.requests) != 0 {
		t.Fatal("request stored despite missing profile")
	}
	h.mustStep(t, state.StepIdle)
	if got := h.msg.lastSent(t).text; got != msgProfileMissing {
		t.Fatalf("reply = %q, want corrective prompt", got)
	}
}

func TestDeliverMatchesSendsOnePerMatch(t *testing.T) {
	h := newHarness()
	h.store.matches = []models.Match{
		{
			Request: models.Request{
				CourierID:  nullInt64(11),
				TravelDate: nullTime(day(2026, time.January, 16)),
			},
			CounterpartName: "Anna",
			OriginName:      "Paris",
			DestinationName: "Berlin",
		},
		{
			Request: models.Request{
				CourierID:  nullInt64(12),
				TravelDate: nullTime(day(2026, time.January, 18)),
			},
			CounterpartName: "Boris",
			OriginName:      "Paris",
			DestinationName: "Berlin",
		},
	}

	form := state.Form{
		Role:     models.RoleSender,
		DateFrom: day(2026, time.January, 15),
		DateTo:   day(2026, time.January, 20),
	}
	req := models.Request{ID: 5, OriginID: 1, DestinationID: 2}

	run(t, "deliver", func() error {
		return h.flow.deliverMatches(h.textCtx("", 0), form, req)
	})

	if len(h.msg.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(h.msg.sent))
	}
	for i, name := range []string{"Anna", "Boris"} {
		if !strings.Contains(h.msg.sent[i].text, name) {
			t.Fatalf("message %d = %q, want counterpart %s", i, h.msg.sent[i].text, name)
		}
	}
}

func TestDeliverMatchesDropsNonOverlapping(t *testing.T) {
	h := newHarness()
	h.store.matches = []models.Match{
		{
			Request: models.Request{
				CourierID:  nullInt64(11),
				TravelDate: nullTime(day(2026, time.January, 16)),
			},
			CounterpartName: "Anna",
			OriginName:      "Paris",
			DestinationName: "Berlin",
		},
		{
			Request: models.Request{
				CourierID:  nullInt64(12),
				TravelDate: nullTime(day(2026, time.February, 25)),
			},
			CounterpartName: "Boris",
			OriginName:      "Paris",
			DestinationName: "Berlin",
		},
	}

	form := state.Form{
		Role:     models.RoleSender,
		DateFrom: day(2026, time.January, 15),
		DateTo:   day(2026, time.January, 20),
	}
	req := models.Request{ID: 5, OriginID: 1, DestinationID: 2}

	run(t, "deliver", func() error {
		return h.flow.deliverMatches(h.textCtx("", 0), form, req)
	})

	if len(h.msg.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(h.msg.sent))
	}
	if got := h.msg.sent[0].text; !strings.Contains(got, "Anna") || strings.Contains(got, "Boris") {
		t.Fatalf("message = %q, want the in-window counterpart only", got)
	}
}

func TestWizardConfirmWithoutRole(t *testing.T) {
	h := newHarness()

	if _, _, err := h.store.GetOrCreateUser(context.Background(), h.user.ID, "Ivan Petrov"); err != nil {
		t.Fatal(err)
	}

	sess := state.Session{
		Step: state.StepConfirm,
		Form: state.Form{
			OriginID:      1,
			DestinationID: 2,
		},
	}
	if err := h.fsm.Put(context.Background(), h.user.ID, sess); err != nil {
		t.Fatal(err)
	}

	run(t, "confirm", func() error { return h.flow.handleConfirm(h.callbackCtx(cbConfirm, "", 0)) })

	if len(h.store.requests) != 0 {
		t.Fatal("request stored without a selected role")
	}
	h.mustStep(t, state.StepIdle)
	if got := h.msg.lastSent(t).text; got != msgProfileMissing {
		t.Fatalf("reply = %q, want corrective prompt", got)
	}
}
