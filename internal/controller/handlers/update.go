package handlers

import (
	"context"
	"strings"

	"github.com/Freeeeeet/barber_bot/internal/apiclient"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const startCommand = "/start"

// HandleUpdate точка входа для каждого обновления.
// Паника при обработке логируется и не затрагивает следующие сообщения.
func (h *Handlers) HandleUpdate(ctx context.Context, update *models.Update) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling update",
				zap.Int64("update_id", update.ID),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()

	switch {
	case update.Message != nil && update.Message.From != nil && update.Message.Text != "":
		msg := update.Message
		h.HandleText(ctx, msg.Chat.ID, msg.From.ID, msg.From.LanguageCode, msg.Text)
	case update.CallbackQuery != nil:
		h.HandleCallback(ctx, update.CallbackQuery)
	}
}

// HandleText обрабатывает текстовое сообщение в зависимости от состояния пользователя
func (h *Handlers) HandleText(ctx context.Context, chatID, telegramID int64, languageCode, text string) {
	sess := h.stateManager.Acquire(telegramID)
	defer sess.Unlock()

	if sess.Lang == "" {
		sess.Lang = h.labels.Lang(languageCode)
	}

	text = strings.TrimSpace(text)

	h.logger.Debug("Text message received",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(sess.State)),
		zap.String("text", text))

	if text == startCommand {
		h.handleStart(ctx, chatID, sess)
		return
	}

	if sess.Profile == nil {
		if !h.loadProfile(ctx, chatID, sess) {
			return
		}
	}

	if sess.State == state.StateNone {
		sess.State = state.StateMainMenu
	}

	switch sess.State {
	case state.StateMainMenu:
		h.handleMainMenu(ctx, chatID, sess, text)
	case state.StateAwaitingRating:
		h.handleAwaitingRating(ctx, chatID, sess, text)
	case state.StateAwaitingComment:
		h.handleComment(ctx, chatID, sess, text)
	default:
		if sess.State.IsBooking() {
			h.handleBookingStep(ctx, chatID, sess, text)
			return
		}
		h.logger.Warn("Unknown state, resetting session",
			zap.Int64("telegram_id", telegramID),
			zap.String("state", string(sess.State)))
		h.showMainMenu(ctx, chatID, sess)
	}
}

// handleStart сбрасывает диалог и заново загружает профиль
func (h *Handlers) handleStart(ctx context.Context, chatID int64, sess *state.Session) {
	// без профиля в меню не пускаем
	sess.State = state.StateNone
	sess.Draft = state.Draft{}
	sess.Survey = nil
	sess.Profile = nil

	if !h.loadProfile(ctx, chatID, sess) {
		return
	}

	h.logger.Info("Session started",
		zap.Int64("telegram_id", sess.TelegramID),
		zap.Int64("user_id", sess.Profile.ID))

	if name := sess.Profile.FullName(); name != "" {
		h.sendKey(ctx, chatID, sess, "welcome", name)
	}
	h.showMainMenu(ctx, chatID, sess)
}

// loadProfile получает пользователя из API и кэширует его в сессии
func (h *Handlers) loadProfile(ctx context.Context, chatID int64, sess *state.Session) bool {
	res := h.api.UserByTelegramID(ctx, sess.TelegramID)

	switch {
	case res.Status == apiclient.StatusNotFound:
		h.sendKey(ctx, chatID, sess, "not_registered")
		return false
	case !res.IsOK() || res.Value == nil:
		h.logger.Error("Failed to get user",
			zap.Int64("telegram_id", sess.TelegramID),
			zap.Error(res.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return false
	}

	sess.Profile = res.Value
	if res.Value.Language != "" {
		sess.Lang = h.labels.Lang(res.Value.Language)
	}
	return true
}
