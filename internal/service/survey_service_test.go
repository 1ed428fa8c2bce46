package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSurveyService(store *memoryStore, api *fakeFeedbackAPI) *SurveyService {
	svc := NewSurveyService(store, api, zap.NewNop())
	svc.backoff = time.Millisecond
	return svc
}

func TestSurveyService_EnqueueRetries(t *testing.T) {
	store := newMemoryStore()
	store.putFails = 2
	svc := newTestSurveyService(store, &fakeFeedbackAPI{})

	err := svc.Enqueue(context.Background(), model.PendingSurvey{BookingID: 5})

	require.NoError(t, err)
	assert.Equal(t, 3, store.puts)

	pending, err := svc.Pending(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestSurveyService_EnqueueGivesUpAfterThreeAttempts(t *testing.T) {
	store := newMemoryStore()
	store.putFails = 10
	svc := newTestSurveyService(store, &fakeFeedbackAPI{})

	err := svc.Enqueue(context.Background(), model.PendingSurvey{BookingID: 5})

	assert.Error(t, err)
	assert.Equal(t, 3, store.puts)
}

func TestSurveyService_SubmitRating(t *testing.T) {
	store := newMemoryStore()
	api := &fakeFeedbackAPI{}
	svc := newTestSurveyService(store, api)
	require.NoError(t, store.Put(context.Background(), model.PendingSurvey{BookingID: 5, Sent: true}))

	err := svc.SubmitRating(context.Background(), RatingVote{BookingID: 5, BarberID: 3, ClientID: 7, Score: 4})

	require.NoError(t, err)
	assert.Equal(t, []model.Rating{{BarberID: 3, ClientID: 7, Score: 4}}, api.ratings)

	pending, err := svc.Pending(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestSurveyService_SubmitRatingFailureKeepsSurvey(t *testing.T) {
	store := newMemoryStore()
	api := &fakeFeedbackAPI{ratingStatus: apiclient.StatusError}
	svc := newTestSurveyService(store, api)
	require.NoError(t, store.Put(context.Background(), model.PendingSurvey{BookingID: 5, Sent: true}))

	err := svc.SubmitRating(context.Background(), RatingVote{BookingID: 5, BarberID: 3, ClientID: 7, Score: 2})

	assert.ErrorIs(t, err, ErrRatingRejected)

	pending, err := svc.Pending(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestSurveyService_SubmitRatingScoreRange(t *testing.T) {
	api := &fakeFeedbackAPI{}
	svc := newTestSurveyService(newMemoryStore(), api)

	for _, score := range []int{0, 6, -1} {
		err := svc.SubmitRating(context.Background(), RatingVote{BookingID: 5, BarberID: 3, ClientID: 7, Score: score})
		assert.ErrorIs(t, err, ErrInvalidScore)
	}
	assert.Empty(t, api.ratings)
}

func TestSurveyService_SubmitComment(t *testing.T) {
	api := &fakeFeedbackAPI{}
	svc := newTestSurveyService(newMemoryStore(), api)

	require.NoError(t, svc.SubmitComment(context.Background(), 5, "Отлично"))
	assert.Equal(t, model.BookingPatch{Comment: "Отлично"}, api.patches[5])

	api.patchStatus = apiclient.StatusError
	assert.ErrorIs(t, svc.SubmitComment(context.Background(), 5, "ещё"), ErrCommentRejected)
}
