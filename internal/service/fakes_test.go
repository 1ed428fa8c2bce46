package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/model"
)

var (
	tashkent  = time.FixedZone("UTC+5", 5*60*60)
	errBroken = errors.New("broken")
)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type fakeSlotsAPI struct {
	slots  []string
	status apiclient.Status
	calls  int
}

func (f *fakeSlotsAPI) AvailableSlots(_ context.Context, _ time.Time, _, _ int64) apiclient.Result[[]string] {
	f.calls++
	if f.status != apiclient.StatusOK {
		return apiclient.Result[[]string]{Status: f.status, Err: errBroken}
	}
	return apiclient.OK(f.slots)
}

type fakeBookingAPI struct {
	result apiclient.Result[*model.Booking]
	got    []model.BookingRequest
}

func (f *fakeBookingAPI) CreateBooking(_ context.Context, req model.BookingRequest) apiclient.Result[*model.Booking] {
	f.got = append(f.got, req)
	return f.result
}

type fakeEnqueuer struct {
	err    error
	queued []model.PendingSurvey
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, survey model.PendingSurvey) error {
	f.queued = append(f.queued, survey)
	return f.err
}

// memoryStore хранилище опросов в памяти с возможностью сломать отдельные операции
type memoryStore struct {
	mu       sync.Mutex
	surveys  map[int64]model.PendingSurvey
	putFails int
	puts     int
	dueErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{surveys: make(map[int64]model.PendingSurvey)}
}

func (s *memoryStore) Put(_ context.Context, survey model.PendingSurvey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.puts <= s.putFails {
		return errBroken
	}
	s.surveys[survey.BookingID] = survey
	return nil
}

func (s *memoryStore) Get(_ context.Context, bookingID int64) (*model.PendingSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	survey, ok := s.surveys[bookingID]
	if !ok {
		return nil, nil
	}
	return &survey, nil
}

func (s *memoryStore) Due(_ context.Context, now time.Time) ([]model.PendingSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dueErr != nil {
		return nil, s.dueErr
	}
	due := make([]model.PendingSurvey, 0)
	for id := int64(1); id <= 100; id++ {
		if survey, ok := s.surveys[id]; ok && survey.IsDue(now) {
			due = append(due, survey)
		}
	}
	return due, nil
}

func (s *memoryStore) MarkSent(_ context.Context, bookingID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	survey, ok := s.surveys[bookingID]
	if !ok {
		return errBroken
	}
	if !survey.Sent {
		survey.Sent = true
		survey.SentAt = &at
		s.surveys[bookingID] = survey
	}
	return nil
}

func (s *memoryStore) Remove(_ context.Context, bookingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surveys, bookingID)
	return nil
}

type fakeFeedbackAPI struct {
	ratingStatus apiclient.Status
	patchStatus  apiclient.Status
	ratings      []model.Rating
	patches      map[int64]model.BookingPatch
}

func (f *fakeFeedbackAPI) SubmitRating(_ context.Context, rating model.Rating) apiclient.Result[*model.Rating] {
	f.ratings = append(f.ratings, rating)
	if f.ratingStatus != apiclient.StatusOK {
		return apiclient.Failed[*model.Rating](errBroken)
	}
	return apiclient.OK(&rating)
}

func (f *fakeFeedbackAPI) PatchBooking(_ context.Context, id int64, patch model.BookingPatch) apiclient.Result[*model.Booking] {
	if f.patches == nil {
		f.patches = make(map[int64]model.BookingPatch)
	}
	f.patches[id] = patch
	if f.patchStatus != apiclient.StatusOK {
		return apiclient.Failed[*model.Booking](errBroken)
	}
	return apiclient.OK(&model.Booking{ID: id, Comment: patch.Comment})
}

type fakeDirectoryAPI struct {
	bookings map[int64]*model.Booking
	barbers  map[int64]*model.Barber
	services map[int64]*model.Service
}

func (f *fakeDirectoryAPI) Booking(_ context.Context, id int64) apiclient.Result[*model.Booking] {
	if b, ok := f.bookings[id]; ok {
		return apiclient.OK(b)
	}
	return apiclient.NotFound[*model.Booking]()
}

func (f *fakeDirectoryAPI) Barber(_ context.Context, id int64) apiclient.Result[*model.Barber] {
	if b, ok := f.barbers[id]; ok {
		return apiclient.OK(b)
	}
	return apiclient.Failed[*model.Barber](errBroken)
}

func (f *fakeDirectoryAPI) Service(_ context.Context, id int64) apiclient.Result[*model.Service] {
	if s, ok := f.services[id]; ok {
		return apiclient.OK(s)
	}
	return apiclient.NotFound[*model.Service]()
}

type fakeNotifier struct {
	failFor map[int64]bool
	prompts []SurveyPrompt
}

func (f *fakeNotifier) NotifySurvey(_ context.Context, prompt SurveyPrompt) error {
	if f.failFor[prompt.Survey.BookingID] {
		return errBroken
	}
	f.prompts = append(f.prompts, prompt)
	return nil
}
