package handlers

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/Freeeeeet/barber_bot/internal/repository"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testTelegramID int64 = 4242
	testUserID     int64 = 11
)

var tashkent = time.FixedZone("UTC+5", 5*60*60)

// fakeAPI внешний API барбершопа в памяти
type fakeAPI struct {
	mu sync.Mutex

	user         *model.User
	barbers      []model.Barber
	serviceTypes []model.ServiceType
	services     []model.Service
	slots        []string
	breaks       []model.Break
	bookings     map[int64]*model.Booking

	failRating  bool
	failComment bool
	failCreate  bool

	calls    int
	created  []model.BookingRequest
	ratings  []model.Rating
	comments map[int64]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		user: &model.User{
			ID:         testUserID,
			TelegramID: testTelegramID,
			Roles:      []model.Role{model.RoleClient},
			FirstName:  "Jasur",
			Language:   "ru",
		},
		barbers: []model.Barber{
			{ID: 7, UserID: 70, Name: "Sardor", IsActive: true},
			{ID: 8, UserID: 80, Name: "Aziz", IsActive: true},
			{ID: 9, UserID: 90, Name: "Bekzod", IsActive: false},
		},
		serviceTypes: []model.ServiceType{{ID: 1, Name: "Стрижка"}},
		services:     []model.Service{{ID: 3, TypeID: 1, BarberID: 7, Name: "Fade", Price: 80000, Duration: 60}},
		slots:        []string{"11:00", "12:30", "14:00"},
		bookings:     make(map[int64]*model.Booking),
		comments:     make(map[int64]string),
	}
}

func (f *fakeAPI) call() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) UserByTelegramID(_ context.Context, telegramID int64) apiclient.Result[*model.User] {
	f.call()
	if f.user == nil || f.user.TelegramID != telegramID {
		return apiclient.NotFound[*model.User]()
	}
	return apiclient.OK(f.user)
}

func (f *fakeAPI) Barbers(context.Context) apiclient.Result[[]model.Barber] {
	f.call()
	return apiclient.OK(f.barbers)
}

func (f *fakeAPI) ServiceTypes(context.Context) apiclient.Result[[]model.ServiceType] {
	f.call()
	return apiclient.OK(f.serviceTypes)
}

func (f *fakeAPI) Services(_ context.Context, typeID, barberID int64) apiclient.Result[[]model.Service] {
	f.call()
	var out []model.Service
	for _, s := range f.services {
		if s.TypeID == typeID && s.BarberID == barberID {
			out = append(out, s)
		}
	}
	return apiclient.OK(out)
}

func (f *fakeAPI) Breaks(_ context.Context, barberID int64) apiclient.Result[[]model.Break] {
	f.call()
	var out []model.Break
	for _, b := range f.breaks {
		if b.BarberID == barberID {
			out = append(out, b)
		}
	}
	return apiclient.OK(out)
}

func (f *fakeAPI) AvailableSlots(context.Context, time.Time, int64, int64) apiclient.Result[[]string] {
	f.call()
	return apiclient.OK(f.slots)
}

func (f *fakeAPI) CreateBooking(_ context.Context, req model.BookingRequest) apiclient.Result[*model.Booking] {
	f.call()
	f.created = append(f.created, req)
	if f.failCreate {
		return apiclient.Failed[*model.Booking](context.DeadlineExceeded)
	}
	booking := &model.Booking{
		ID:        101,
		UserID:    req.UserID,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		StartTime: req.StartTime,
		EndTime:   req.StartTime.Add(time.Hour),
		Status:    model.BookingStatusConfirmed,
	}
	f.bookings[booking.ID] = booking
	return apiclient.OK(booking)
}

func (f *fakeAPI) SubmitRating(_ context.Context, rating model.Rating) apiclient.Result[*model.Rating] {
	f.call()
	if f.failRating {
		return apiclient.Failed[*model.Rating](context.DeadlineExceeded)
	}
	f.ratings = append(f.ratings, rating)
	return apiclient.OK(&rating)
}

func (f *fakeAPI) PatchBooking(_ context.Context, id int64, patch model.BookingPatch) apiclient.Result[*model.Booking] {
	f.call()
	if f.failComment {
		return apiclient.Failed[*model.Booking](context.DeadlineExceeded)
	}
	f.comments[id] = patch.Comment
	return apiclient.OK(&model.Booking{ID: id, Comment: patch.Comment})
}

type sentMessage struct {
	chatID int64
	text   string
	markup models.ReplyMarkup
}

type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	answers  []string
	fail     bool
}

func (s *fakeSender) SendMessage(_ context.Context, chatID int64, text string, markup models.ReplyMarkup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.messages = append(s.messages, sentMessage{chatID: chatID, text: text, markup: markup})
	return nil
}

func (s *fakeSender) AnswerCallback(_ context.Context, _ string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, text)
	return nil
}

func (s *fakeSender) last(t *testing.T) sentMessage {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages, "no messages sent")
	return s.messages[len(s.messages)-1]
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// replyButtons надписи reply-клавиатуры по порядку
func replyButtons(t *testing.T, markup models.ReplyMarkup) []string {
	t.Helper()
	kb, ok := markup.(*models.ReplyKeyboardMarkup)
	require.True(t, ok, "expected reply keyboard, got %T", markup)
	var out []string
	for _, row := range kb.Keyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

type fixture struct {
	h       *Handlers
	api     *fakeAPI
	sender  *fakeSender
	store   repository.SurveyStore
	surveys *service.SurveyService
	labels  *labels.Catalog
	states  *state.Manager
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := labels.Load()
	require.NoError(t, err)

	store, err := repository.NewFileSurveyStore(filepath.Join(t.TempDir(), "pending_surveys.json"))
	require.NoError(t, err)

	f := &fixture{
		api:    newFakeAPI(),
		sender: &fakeSender{},
		store:  store,
		labels: catalog,
		now:    time.Date(2025, 3, 10, 12, 10, 0, 0, tashkent),
	}
	f.rebuild()
	return f
}

// rebuild собирает обработчики заново с пустыми сессиями, как после перезапуска процесса
func (f *fixture) rebuild() {
	logger := zap.NewNop()
	clock := func() time.Time { return f.now }

	f.surveys = service.NewSurveyService(f.store, f.api, logger)
	f.states = state.NewManager()
	f.h = NewHandlers(
		f.api,
		service.NewSlotService(f.api, tashkent, clock, logger),
		service.NewBookingService(f.api, f.surveys, tashkent, clock, logger),
		f.surveys,
		f.states,
		f.labels,
		f.sender,
		tashkent,
		clock,
		logger,
	)
}

func (f *fixture) say(text string) {
	f.h.HandleText(context.Background(), testTelegramID, testTelegramID, "ru", text)
}

func (f *fixture) press(key string) {
	f.say(f.labels.Button("ru", key))
}

func (f *fixture) state() state.UserState {
	return f.states.GetState(testTelegramID)
}

func (f *fixture) text(key string, args ...any) string {
	return f.labels.Text("ru", key, args...)
}

func (f *fixture) draft() state.Draft {
	sess := f.states.Acquire(testTelegramID)
	defer sess.Unlock()
	return sess.Draft
}

func (f *fixture) callback(data string) {
	f.h.HandleCallback(context.Background(), &models.CallbackQuery{
		ID:   "cb-1",
		From: models.User{ID: testTelegramID, LanguageCode: "ru"},
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{ID: 1, Chat: models.Chat{ID: testTelegramID}},
		},
		Data: data,
	})
}
