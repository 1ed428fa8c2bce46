package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// send отправляет сообщение и логирует если не удалось
func (h *Handlers) send(ctx context.Context, chatID int64, text string, markup models.ReplyMarkup) {
	if err := h.sender.SendMessage(ctx, chatID, text, markup); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendKey отправляет текст из каталога на языке сессии
func (h *Handlers) sendKey(ctx context.Context, chatID int64, sess *state.Session, key string, args ...any) {
	h.send(ctx, chatID, h.labels.Text(sess.Lang, key, args...), nil)
}

// answer отвечает на callback query и логирует если не удалось
func (h *Handlers) answer(ctx context.Context, callbackID, text string) {
	if err := h.sender.AnswerCallback(ctx, callbackID, text); err != nil {
		h.logger.Error("Failed to answer callback",
			zap.String("callback_id", callbackID),
			zap.Error(err),
		)
	}
}

// button надпись кнопки на языке сессии
func (h *Handlers) button(sess *state.Session, key string) string {
	return h.labels.Button(sess.Lang, key)
}

// is совпадает ли текст с кнопкой в языке сессии
func (h *Handlers) is(sess *state.Session, text, key string) bool {
	return h.labels.Is(sess.Lang, text, key)
}

// today полночь текущего дня в зоне салона
func (h *Handlers) today() time.Time {
	now := h.now().In(h.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
}

// bookingErrorKey возвращает ключ сообщения для ошибки создания записи
func bookingErrorKey(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidSelection), errors.Is(err, service.ErrInvalidTime):
		return "selection_incomplete"
	default:
		return "booking_failed"
	}
}
