package service

import "time"

// Clock источник текущего времени, подменяется в тестах
type Clock func() time.Time

// SystemClock текущее время процесса
func SystemClock() time.Time {
	return time.Now()
}

// ParseTimeOfDay разбирает "HH:MM" (API иногда отдаёт "HH:MM:SS")
func ParseTimeOfDay(value string) (hour, minute int, err error) {
	for _, layout := range []string{"15:04", time.TimeOnly} {
		if t, parseErr := time.Parse(layout, value); parseErr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, ErrInvalidTime
}

// LocalToUTC склеивает календарную дату и время суток в зоне салона и переводит в UTC
func LocalToUTC(date time.Time, timeOfDay string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc).UTC(), nil
}

// SameDay проверяет совпадение календарных дат
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
