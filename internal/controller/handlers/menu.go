package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/barber_bot/internal/controller/formatting"
	"github.com/Freeeeeet/barber_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// showMainMenu сбрасывает черновик и показывает меню по роли пользователя
func (h *Handlers) showMainMenu(ctx context.Context, chatID int64, sess *state.Session) {
	sess.Reset()
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "main_menu"), h.mainMenuKeyboard(sess))
}

func (h *Handlers) mainMenuKeyboard(sess *state.Session) models.ReplyMarkup {
	kb := keyboard.NewBuilder().Row(h.button(sess, labels.Book))
	if sess.Profile != nil && sess.Profile.HasRole(model.RoleBarber) {
		kb.Row(h.button(sess, labels.MyBreaks))
	}
	return kb.Build()
}

func (h *Handlers) handleMainMenu(ctx context.Context, chatID int64, sess *state.Session, text string) {
	switch {
	case h.is(sess, text, labels.Book):
		h.showBarbers(ctx, chatID, sess)
	case h.is(sess, text, labels.MyBreaks) && sess.Profile.HasRole(model.RoleBarber):
		h.showBreaks(ctx, chatID, sess)
	case h.is(sess, text, labels.BackMain):
		h.showMainMenu(ctx, chatID, sess)
	default:
		h.sendKey(ctx, chatID, sess, "unknown_command")
	}
}

// showBreaks список перерывов мастера, состояние не меняется
func (h *Handlers) showBreaks(ctx context.Context, chatID int64, sess *state.Session) {
	barbersRes := h.api.Barbers(ctx)
	if !barbersRes.IsOK() {
		h.logger.Error("Failed to get barbers", zap.Error(barbersRes.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return
	}

	var barberID int64
	for _, barber := range barbersRes.Value {
		if barber.UserID == sess.Profile.ID {
			barberID = barber.ID
			break
		}
	}
	if barberID == 0 {
		h.sendKey(ctx, chatID, sess, "no_breaks")
		return
	}

	breaksRes := h.api.Breaks(ctx, barberID)
	if !breaksRes.IsOK() {
		h.logger.Error("Failed to get breaks",
			zap.Int64("barber_id", barberID),
			zap.Error(breaksRes.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return
	}

	now := h.now()
	var lines []string
	for _, br := range breaksRes.Value {
		if !br.EndTime.After(now) {
			continue
		}
		start := br.StartTime.In(h.loc)
		end := br.EndTime.In(h.loc)
		line := fmt.Sprintf("• %s %s", formatting.FormatDate(start), formatting.FormatTimeRange(start, end))
		if br.Reason != "" {
			line += " - " + br.Reason
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		h.sendKey(ctx, chatID, sess, "no_breaks")
		return
	}

	h.send(ctx, chatID, h.labels.Text(sess.Lang, "breaks_header")+"\n\n"+strings.Join(lines, "\n"), nil)
}
