package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/Freeeeeet/barber_bot/internal/repository"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	enqueueAttempts = 3
	enqueueBackoff  = 200 * time.Millisecond
)

// FeedbackAPI оценки и комментарии к записи
type FeedbackAPI interface {
	SubmitRating(ctx context.Context, rating model.Rating) apiclient.Result[*model.Rating]
	PatchBooking(ctx context.Context, id int64, patch model.BookingPatch) apiclient.Result[*model.Booking]
}

// RatingVote оценка из кнопки опроса: запись, мастер, клиент и балл
type RatingVote struct {
	BookingID int64
	BarberID  int64
	ClientID  int64
	Score     int
}

// SurveyService очередь опросов и приём оценок
type SurveyService struct {
	store   repository.SurveyStore
	api     FeedbackAPI
	backoff time.Duration
	logger  *zap.Logger
}

func NewSurveyService(store repository.SurveyStore, api FeedbackAPI, logger *zap.Logger) *SurveyService {
	return &SurveyService{
		store:   store,
		api:     api,
		backoff: enqueueBackoff,
		logger:  logger,
	}
}

// Enqueue сохраняет опрос. Запись по ключу перезаписывается, поэтому повтор безопасен.
func (s *SurveyService) Enqueue(ctx context.Context, survey model.PendingSurvey) error {
	backoff := retry.WithMaxRetries(enqueueAttempts-1, retry.NewConstant(s.backoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.store.Put(ctx, survey); err != nil {
			s.logger.Warn("Survey enqueue attempt failed",
				zap.Int64("booking_id", survey.BookingID),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("enqueue survey: %w", err)
	}

	s.logger.Info("Survey scheduled",
		zap.Int64("booking_id", survey.BookingID),
		zap.Time("send_at", survey.SendAt))
	return nil
}

// Pending опрос по записи, пока оценка не получена; nil если его уже нет
func (s *SurveyService) Pending(ctx context.Context, bookingID int64) (*model.PendingSurvey, error) {
	survey, err := s.store.Get(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get pending survey %d: %w", bookingID, err)
	}
	return survey, nil
}

// SubmitRating отправляет оценку. Только после успеха опрос удаляется из очереди.
func (s *SurveyService) SubmitRating(ctx context.Context, vote RatingVote) error {
	if vote.Score < model.MinRatingScore || vote.Score > model.MaxRatingScore {
		return ErrInvalidScore
	}

	res := s.api.SubmitRating(ctx, model.Rating{
		BarberID: vote.BarberID,
		ClientID: vote.ClientID,
		Score:    vote.Score,
	})
	if !res.IsOK() {
		s.logger.Error("Failed to submit rating",
			zap.Int64("booking_id", vote.BookingID),
			zap.Int64("barber_id", vote.BarberID),
			zap.String("status", res.Status.String()),
			zap.Error(res.Error()))
		return ErrRatingRejected
	}

	if err := s.store.Remove(ctx, vote.BookingID); err != nil {
		// опрос уже отправлен, повторно он не уйдёт
		s.logger.Error("Failed to remove answered survey",
			zap.Int64("booking_id", vote.BookingID),
			zap.Error(err))
	}

	s.logger.Info("Rating received",
		zap.Int64("booking_id", vote.BookingID),
		zap.Int64("barber_id", vote.BarberID),
		zap.Int("score", vote.Score))
	return nil
}

// SubmitComment прикрепляет комментарий к записи
func (s *SurveyService) SubmitComment(ctx context.Context, bookingID int64, text string) error {
	res := s.api.PatchBooking(ctx, bookingID, model.BookingPatch{Comment: text})
	if !res.IsOK() {
		s.logger.Error("Failed to attach comment",
			zap.Int64("booking_id", bookingID),
			zap.String("status", res.Status.String()),
			zap.Error(res.Error()))
		return ErrCommentRejected
	}
	return nil
}
