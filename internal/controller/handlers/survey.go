package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/barber_bot/internal/controller/formatting"
	"github.com/Freeeeeet/barber_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// RatePrefix префикс callback data кнопок оценки: rate:<booking>:<barber>:<client>:<score>
const RatePrefix = "rate:"

var errInvalidRateData = errors.New("invalid rate callback data")

// RateCallbackData собирает callback data для кнопки оценки
func RateCallbackData(vote service.RatingVote) string {
	return fmt.Sprintf("%s%d:%d:%d:%d", RatePrefix, vote.BookingID, vote.BarberID, vote.ClientID, vote.Score)
}

// ParseRateCallback разбирает callback data кнопки оценки
func ParseRateCallback(data string) (service.RatingVote, error) {
	if !strings.HasPrefix(data, RatePrefix) {
		return service.RatingVote{}, errInvalidRateData
	}

	parts := strings.Split(strings.TrimPrefix(data, RatePrefix), ":")
	if len(parts) != 4 {
		return service.RatingVote{}, errInvalidRateData
	}

	ids := make([]int64, len(parts))
	for i, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return service.RatingVote{}, fmt.Errorf("%w: %v", errInvalidRateData, err)
		}
		ids[i] = id
	}

	vote := service.RatingVote{
		BookingID: ids[0],
		BarberID:  ids[1],
		ClientID:  ids[2],
		Score:     int(ids[3]),
	}
	if vote.Score < model.MinRatingScore || vote.Score > model.MaxRatingScore {
		return service.RatingVote{}, errInvalidRateData
	}
	return vote, nil
}

// NotifySurvey отправляет опрос и переводит диалог пользователя в ожидание оценки.
// Состояние меняется только после успешной отправки.
func (h *Handlers) NotifySurvey(ctx context.Context, prompt service.SurveyPrompt) error {
	survey := prompt.Survey

	sess := h.stateManager.Acquire(survey.TelegramID)
	defer sess.Unlock()

	if survey.Lang != "" {
		sess.Lang = h.labels.Lang(survey.Lang)
	} else if sess.Lang == "" {
		sess.Lang = labels.DefaultLang
	}

	barberName, serviceName := "—", "—"
	if prompt.Barber != nil {
		barberName = prompt.Barber.Name
	}
	if prompt.Service != nil {
		serviceName = prompt.Service.Name
	}

	text := h.labels.Text(sess.Lang, "survey_prompt",
		barberName,
		serviceName,
		formatting.FormatDateTime(prompt.Booking.StartTime.In(h.loc)),
	)

	kb := keyboard.NewInlineBuilder()
	row := make([]models.InlineKeyboardButton, 0, model.MaxRatingScore)
	for score := model.MinRatingScore; score <= model.MaxRatingScore; score++ {
		vote := service.RatingVote{
			BookingID: survey.BookingID,
			BarberID:  survey.BarberID,
			ClientID:  survey.UserID,
			Score:     score,
		}
		row = append(row, keyboard.Button(fmt.Sprintf("%d ⭐", score), RateCallbackData(vote)))
	}
	kb.Row(row...)

	if err := h.sender.SendMessage(ctx, survey.TelegramID, text, kb.Build()); err != nil {
		return fmt.Errorf("send survey prompt: %w", err)
	}

	if err := state.FireSurveyEvent(ctx, sess, state.SurveyEventPrompt); err != nil {
		return fmt.Errorf("enter survey: %w", err)
	}
	sess.Survey = &state.SurveyContext{
		BookingID: survey.BookingID,
		BarberID:  survey.BarberID,
		ClientID:  survey.UserID,
	}

	h.logger.Info("Survey prompt sent",
		zap.Int64("booking_id", survey.BookingID),
		zap.Int64("telegram_id", survey.TelegramID))
	return nil
}

// HandleCallback обрабатывает нажатия inline кнопок (оценки)
func (h *Handlers) HandleCallback(ctx context.Context, callback *models.CallbackQuery) {
	if !strings.HasPrefix(callback.Data, RatePrefix) {
		h.answer(ctx, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	chatID := telegramID
	if callback.Message.Message != nil {
		chatID = callback.Message.Message.Chat.ID
	}

	sess := h.stateManager.Acquire(telegramID)
	defer sess.Unlock()

	if sess.Lang == "" {
		sess.Lang = h.labels.Lang(callback.From.LanguageCode)
	}

	vote, err := ParseRateCallback(callback.Data)
	if err != nil {
		h.logger.Warn("Invalid rate callback",
			zap.String("data", callback.Data),
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.answer(ctx, callback.ID, h.labels.Text(sess.Lang, "unknown_command"))
		return
	}

	h.handleRating(ctx, chatID, callback.ID, sess, vote)
}

func (h *Handlers) handleRating(ctx context.Context, chatID int64, callbackID string, sess *state.Session, vote service.RatingVote) {
	active := state.CanFireSurvey(sess, state.SurveyEventRate) &&
		sess.Survey != nil && sess.Survey.BookingID == vote.BookingID
	// диалог мог потеряться после перезапуска или пользователь оценивает другой визит
	if !active && !h.checkDetachedRating(ctx, callbackID, sess, vote) {
		return
	}

	if err := h.surveyService.SubmitRating(ctx, vote); err != nil {
		h.logger.Error("Rating not saved",
			zap.Int64("booking_id", vote.BookingID),
			zap.Int("score", vote.Score),
			zap.Error(err))
		h.answer(ctx, callbackID, h.labels.Text(sess.Lang, "rating_failed"))
		return
	}

	h.answer(ctx, callbackID, h.labels.Text(sess.Lang, "rating_saved"))

	if err := h.enterComment(ctx, sess, vote, active); err != nil {
		h.logger.Error("Failed to advance survey",
			zap.Int64("booking_id", vote.BookingID),
			zap.Error(err))
		h.showMainMenu(ctx, chatID, sess)
		return
	}

	kb := keyboard.NewBuilder().Row(h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "ask_comment"), kb.Build())
}

// checkDetachedRating пропускает оценку вне ожидания, только если опрос ещё в очереди
// и кнопка совпадает с ним: тот же пользователь, мастер и клиент
func (h *Handlers) checkDetachedRating(ctx context.Context, callbackID string, sess *state.Session, vote service.RatingVote) bool {
	survey, err := h.surveyService.Pending(ctx, vote.BookingID)
	if err != nil {
		h.logger.Error("Failed to check pending survey",
			zap.Int64("booking_id", vote.BookingID),
			zap.Error(err))
		h.answer(ctx, callbackID, h.labels.Text(sess.Lang, "api_error"))
		return false
	}
	if survey == nil {
		h.answer(ctx, callbackID, h.labels.Text(sess.Lang, "already_rated"))
		return false
	}
	if survey.TelegramID != sess.TelegramID || survey.BarberID != vote.BarberID || survey.UserID != vote.ClientID {
		h.logger.Warn("Rating button does not match pending survey",
			zap.Int64("booking_id", vote.BookingID),
			zap.Int64("telegram_id", sess.TelegramID),
			zap.Int64("survey_telegram_id", survey.TelegramID),
			zap.Int64("barber_id", vote.BarberID),
			zap.Int64("client_id", vote.ClientID))
		h.answer(ctx, callbackID, h.labels.Text(sess.Lang, "unknown_command"))
		return false
	}
	return true
}

// enterComment переводит сессию к комментарию после сохранённой оценки
func (h *Handlers) enterComment(ctx context.Context, sess *state.Session, vote service.RatingVote, active bool) error {
	if !active {
		if err := state.FireSurveyEvent(ctx, sess, state.SurveyEventPrompt); err != nil {
			return err
		}
	}
	sess.Survey = &state.SurveyContext{
		BookingID: vote.BookingID,
		BarberID:  vote.BarberID,
		ClientID:  vote.ClientID,
	}
	return state.FireSurveyEvent(ctx, sess, state.SurveyEventRate)
}

// handleAwaitingRating текст вместо оценки: напоминаем про кнопки или выходим в меню
func (h *Handlers) handleAwaitingRating(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.BackMain) {
		h.leaveSurvey(ctx, chatID, sess, state.SurveyEventSkip)
		return
	}
	h.sendKey(ctx, chatID, sess, "rate_with_buttons")
}

// handleComment сохраняет отзыв и в любом случае возвращает в меню
func (h *Handlers) handleComment(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.BackMain) || sess.Survey == nil {
		h.leaveSurvey(ctx, chatID, sess, state.SurveyEventSkip)
		return
	}

	if err := h.surveyService.SubmitComment(ctx, sess.Survey.BookingID, text); err != nil {
		h.sendKey(ctx, chatID, sess, "comment_failed")
	} else {
		h.sendKey(ctx, chatID, sess, "comment_saved")
	}

	h.leaveSurvey(ctx, chatID, sess, state.SurveyEventComment)
}

func (h *Handlers) leaveSurvey(ctx context.Context, chatID int64, sess *state.Session, event string) {
	if err := state.FireSurveyEvent(ctx, sess, event); err != nil {
		h.logger.Warn("Survey transition rejected",
			zap.String("event", event),
			zap.String("state", string(sess.State)),
			zap.Error(err))
	}
	h.showMainMenu(ctx, chatID, sess)
}
