package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/controller/formatting"
	"github.com/Freeeeeet/barber_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/barber_bot/internal/controller/labels"
	"github.com/Freeeeeet/barber_bot/internal/controller/state"
	"github.com/Freeeeeet/barber_bot/internal/service"
	"go.uber.org/zap"
)

const (
	datePickerDays = 30

	barberColumns  = 2
	serviceColumns = 2
	dateColumns    = 3
	slotColumns    = 4
)

// handleBookingStep обрабатывает шаг записи в зависимости от состояния
func (h *Handlers) handleBookingStep(ctx context.Context, chatID int64, sess *state.Session, text string) {
	// "Главное меню" работает на любом шаге и выбрасывает весь черновик
	if h.is(sess, text, labels.BackMain) {
		h.logger.Info("Booking abandoned",
			zap.Int64("telegram_id", sess.TelegramID),
			zap.String("state", string(sess.State)))
		h.showMainMenu(ctx, chatID, sess)
		return
	}

	switch sess.State {
	case state.StateBarberName:
		h.handleBarberName(ctx, chatID, sess, text)
	case state.StateCheckServiceType:
		h.handleServiceType(ctx, chatID, sess, text)
	case state.StateDate:
		h.handleService(ctx, chatID, sess, text)
	case state.StateTime:
		h.handleDayChoice(ctx, chatID, sess, text)
	case state.StateCheckSelectedDate:
		h.handleSelectedDate(ctx, chatID, sess, text)
	case state.StateCheckSelectedTime:
		h.handleSelectedTime(ctx, chatID, sess, text)
	case state.StateConfirmBooking:
		h.handleConfirm(ctx, chatID, sess, text)
	}
}

// ========================
// Мастер
// ========================

// showBarbers показывает мастеров и запоминает соответствие имя -> id в черновике
func (h *Handlers) showBarbers(ctx context.Context, chatID int64, sess *state.Session) bool {
	res := h.api.Barbers(ctx)
	if !res.IsOK() {
		h.logger.Error("Failed to get barbers", zap.Error(res.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return false
	}

	lookup := state.NewLookup[int64]()
	for _, barber := range res.Value {
		if barber.IsActive {
			lookup.Add(barber.Name, barber.ID)
		}
	}

	if lookup.Len() == 0 {
		h.sendKey(ctx, chatID, sess, "no_barbers")
		return false
	}

	for _, name := range lookup.Ambiguous() {
		h.logger.Warn("Several barbers share one display name",
			zap.String("name", name))
	}

	sess.Draft.Barbers = lookup
	sess.State = state.StateBarberName

	kb := keyboard.NewBuilder().
		Grid(lookup.Labels(), barberColumns).
		Row(h.button(sess, labels.Back))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_barber"), kb.Build())
	return true
}

func (h *Handlers) handleBarberName(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.Back) {
		h.showMainMenu(ctx, chatID, sess)
		return
	}

	barberID, found, ambiguous := sess.Draft.Barbers.Resolve(text)
	if !found {
		h.sendKey(ctx, chatID, sess, "unknown_command")
		return
	}
	if ambiguous {
		h.logger.Warn("Ambiguous barber selected",
			zap.Int64("telegram_id", sess.TelegramID),
			zap.String("name", text))
		h.sendKey(ctx, chatID, sess, "ambiguous_barber", text)
		return
	}

	sess.Draft.BarberID = barberID
	sess.Draft.BarberName = text

	if !h.showServiceTypes(ctx, chatID, sess) {
		sess.Draft.ClearBarber()
	}
}

// ========================
// Вид услуги и услуга
// ========================

func (h *Handlers) showServiceTypes(ctx context.Context, chatID int64, sess *state.Session) bool {
	res := h.api.ServiceTypes(ctx)
	if !res.IsOK() {
		h.logger.Error("Failed to get service types", zap.Error(res.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return false
	}

	lookup := state.NewLookup[int64]()
	for _, st := range res.Value {
		lookup.Add(st.Name, st.ID)
	}

	if lookup.Len() == 0 {
		h.sendKey(ctx, chatID, sess, "no_service_types")
		return false
	}

	sess.Draft.ServiceTypes = lookup
	sess.State = state.StateCheckServiceType

	kb := keyboard.NewBuilder().
		Grid(lookup.Labels(), serviceColumns).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_service_type", sess.Draft.BarberName), kb.Build())
	return true
}

func (h *Handlers) handleServiceType(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.Back) {
		sess.Draft.ClearBarber()
		h.showBarbers(ctx, chatID, sess)
		return
	}

	typeID, found, ambiguous := sess.Draft.ServiceTypes.Resolve(text)
	if !found || ambiguous {
		h.sendKey(ctx, chatID, sess, "unknown_command")
		return
	}

	sess.Draft.ServiceTypeID = typeID
	sess.Draft.ServiceTypeName = text

	if !h.showServices(ctx, chatID, sess) {
		sess.Draft.ClearServiceType()
	}
}

func (h *Handlers) showServices(ctx context.Context, chatID int64, sess *state.Session) bool {
	res := h.api.Services(ctx, sess.Draft.ServiceTypeID, sess.Draft.BarberID)
	if !res.IsOK() {
		h.logger.Error("Failed to get services",
			zap.Int64("service_type_id", sess.Draft.ServiceTypeID),
			zap.Int64("barber_id", sess.Draft.BarberID),
			zap.Error(res.Error()))
		h.sendKey(ctx, chatID, sess, "api_error")
		return false
	}

	lookup := state.NewLookup[state.ServiceOption]()
	for _, svc := range res.Value {
		lookup.Add(svc.Name, state.ServiceOption{ID: svc.ID, Name: svc.Name, Duration: svc.Duration})
	}

	if lookup.Len() == 0 {
		h.sendKey(ctx, chatID, sess, "no_services")
		return false
	}

	sess.Draft.Services = lookup
	sess.State = state.StateDate

	kb := keyboard.NewBuilder().
		Grid(lookup.Labels(), serviceColumns).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_service", sess.Draft.ServiceTypeName), kb.Build())
	return true
}

func (h *Handlers) handleService(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.Back) {
		sess.Draft.ClearServiceType()
		h.showServiceTypes(ctx, chatID, sess)
		return
	}

	option, found, ambiguous := sess.Draft.Services.Resolve(text)
	if !found || ambiguous {
		h.sendKey(ctx, chatID, sess, "unknown_command")
		return
	}

	sess.Draft.ServiceID = option.ID
	sess.Draft.ServiceName = option.Name
	sess.Draft.ServiceDuration = option.Duration

	h.showDayChoice(ctx, chatID, sess)
}

// ========================
// День и время
// ========================

func (h *Handlers) showDayChoice(ctx context.Context, chatID int64, sess *state.Session) {
	sess.State = state.StateTime

	kb := keyboard.NewBuilder().
		Row(h.button(sess, labels.Today), h.button(sess, labels.AnotherDay)).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_day", sess.Draft.ServiceName), kb.Build())
}

func (h *Handlers) handleDayChoice(ctx context.Context, chatID int64, sess *state.Session, text string) {
	switch {
	case h.is(sess, text, labels.Back):
		sess.Draft.ClearService()
		h.showServices(ctx, chatID, sess)
	case h.is(sess, text, labels.Today):
		h.showSlots(ctx, chatID, sess, h.today(), false)
	case h.is(sess, text, labels.AnotherDay):
		h.showDatePicker(ctx, chatID, sess)
	default:
		h.sendKey(ctx, chatID, sess, "unknown_command")
	}
}

// showDatePicker предлагает следующие 30 дней начиная с завтра
func (h *Handlers) showDatePicker(ctx context.Context, chatID int64, sess *state.Session) {
	today := h.today()

	lookup := state.NewLookup[time.Time]()
	for i := 1; i <= datePickerDays; i++ {
		day := today.AddDate(0, 0, i)
		lookup.Add(formatting.FormatPickerDate(day, sess.Lang), day)
	}

	sess.Draft.Dates = lookup
	sess.State = state.StateCheckSelectedDate

	kb := keyboard.NewBuilder().
		Grid(lookup.Labels(), dateColumns).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_date"), kb.Build())
}

func (h *Handlers) handleSelectedDate(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.Back) {
		sess.Draft.ClearDate()
		h.showDayChoice(ctx, chatID, sess)
		return
	}

	date, found, _ := sess.Draft.Dates.Resolve(text)
	if !found {
		h.sendKey(ctx, chatID, sess, "unknown_command")
		return
	}

	h.showSlots(ctx, chatID, sess, date, true)
}

// showSlots запрашивает свободное время и переходит к его выбору.
// Если времени нет, состояние не меняется.
func (h *Handlers) showSlots(ctx context.Context, chatID int64, sess *state.Session, date time.Time, fromPicker bool) bool {
	slots := h.slotService.AvailableSlots(ctx, date, sess.Draft.BarberID, sess.Draft.ServiceID)
	if len(slots) == 0 {
		h.sendKey(ctx, chatID, sess, "no_slots")
		return false
	}

	sess.Draft.Date = date
	sess.Draft.FromPicker = fromPicker
	sess.Draft.Slots = slots
	sess.Draft.ClearTime()
	sess.State = state.StateCheckSelectedTime

	kb := keyboard.NewBuilder().
		Grid(slots, slotColumns).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, h.labels.Text(sess.Lang, "choose_time", formatting.FormatDate(date)), kb.Build())
	return true
}

func (h *Handlers) handleSelectedTime(ctx context.Context, chatID int64, sess *state.Session, text string) {
	if h.is(sess, text, labels.Back) {
		fromPicker := sess.Draft.FromPicker
		sess.Draft.ClearTime()
		sess.Draft.ClearDate()
		if fromPicker {
			h.showDatePicker(ctx, chatID, sess)
		} else {
			h.showDayChoice(ctx, chatID, sess)
		}
		return
	}

	// принимаем только время из последней показанной клавиатуры, без запроса к API
	if !sess.Draft.HasSlot(text) {
		h.sendKey(ctx, chatID, sess, "slot_unavailable")
		return
	}

	sess.Draft.Time = text
	h.showSummary(ctx, chatID, sess)
}

// ========================
// Подтверждение
// ========================

func (h *Handlers) showSummary(ctx context.Context, chatID int64, sess *state.Session) {
	sess.State = state.StateConfirmBooking

	text := h.labels.Text(sess.Lang, "booking_summary",
		sess.Draft.BarberName,
		sess.Draft.ServiceName,
		formatting.FormatDate(sess.Draft.Date),
		sess.Draft.Time,
	)

	kb := keyboard.NewBuilder().
		Row(h.button(sess, labels.Confirm)).
		Row(h.button(sess, labels.Back), h.button(sess, labels.BackMain))
	h.send(ctx, chatID, text, kb.Build())
}

func (h *Handlers) handleConfirm(ctx context.Context, chatID int64, sess *state.Session, text string) {
	switch {
	case h.is(sess, text, labels.Confirm):
		h.confirmBooking(ctx, chatID, sess)
	case h.is(sess, text, labels.Back):
		sess.Draft.ClearTime()
		if !h.showSlots(ctx, chatID, sess, sess.Draft.Date, sess.Draft.FromPicker) {
			// время на эту дату разобрали, возвращаем к выбору дня
			sess.Draft.ClearDate()
			h.showDayChoice(ctx, chatID, sess)
		}
	default:
		h.sendKey(ctx, chatID, sess, "unknown_command")
	}
}

func (h *Handlers) confirmBooking(ctx context.Context, chatID int64, sess *state.Session) {
	draft := sess.Draft

	booking, err := h.bookingService.CreateBooking(ctx, service.BookingInput{
		User:      sess.Profile,
		BarberID:  draft.BarberID,
		ServiceID: draft.ServiceID,
		Date:      draft.Date,
		Time:      draft.Time,
		Duration:  draft.ServiceDuration,
		Lang:      sess.Lang,
	})
	if err != nil {
		h.logger.Error("Failed to confirm booking",
			zap.Int64("telegram_id", sess.TelegramID),
			zap.Int64("barber_id", draft.BarberID),
			zap.Int64("service_id", draft.ServiceID),
			zap.Error(err))
		// состояние не меняется: можно нажать "Подтвердить" ещё раз или вернуться
		h.sendKey(ctx, chatID, sess, bookingErrorKey(err))
		return
	}

	start := booking.StartTime.In(h.loc)
	text := h.labels.Text(sess.Lang, "booking_created",
		booking.ID,
		formatting.FormatDate(start),
		formatting.FormatTime(start),
	)

	sess.Reset()
	h.send(ctx, chatID, text, h.mainMenuKeyboard(sess))
}
