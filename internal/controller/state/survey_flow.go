package state

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// События опроса после визита
const (
	SurveyEventPrompt  = "prompt"
	SurveyEventRate    = "rate"
	SurveyEventComment = "comment"
	SurveyEventSkip    = "skip"
)

const surveyIdle = "idle"

// FireSurveyEvent проверяет переход опроса по таблице и применяет его к сессии.
// Возвращает ошибку, если из текущего состояния событие недопустимо.
func FireSurveyEvent(ctx context.Context, sess *Session, event string) error {
	flow := newSurveyFlow(sess.State)
	if err := flow.Event(ctx, event); err != nil {
		// повторный prompt в ожидании оценки оставляет состояние прежним
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			return err
		}
	}

	switch flow.Current() {
	case string(StateAwaitingRating):
		if sess.State.IsBooking() {
			// опрос прерывает незаконченную запись
			sess.Draft = Draft{}
		}
		sess.State = StateAwaitingRating
	case string(StateAwaitingComment):
		sess.State = StateAwaitingComment
	default:
		sess.Reset()
	}
	return nil
}

// CanFireSurvey допустимо ли событие в текущем состоянии сессии
func CanFireSurvey(sess *Session, event string) bool {
	return newSurveyFlow(sess.State).Can(event)
}

func newSurveyFlow(current UserState) *fsm.FSM {
	initial := surveyIdle
	if current == StateAwaitingRating || current == StateAwaitingComment {
		initial = string(current)
	}

	rating := string(StateAwaitingRating)
	comment := string(StateAwaitingComment)

	return fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: SurveyEventPrompt, Src: []string{surveyIdle, rating, comment}, Dst: rating},
			{Name: SurveyEventRate, Src: []string{rating}, Dst: comment},
			{Name: SurveyEventComment, Src: []string{comment}, Dst: surveyIdle},
			{Name: SurveyEventSkip, Src: []string{rating, comment}, Dst: surveyIdle},
		},
		fsm.Callbacks{},
	)
}
