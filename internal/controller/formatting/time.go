package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatTime форматирует только время
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04"))
}

// FormatPickerDate надпись даты в списке на 30 дней: "17.03 (Пн)"
func FormatPickerDate(t time.Time, lang string) string {
	return fmt.Sprintf("%s (%s)", t.Format("02.01"), GetWeekdayShortName(int(t.Weekday()), lang))
}

var weekdayShortNames = map[string][]string{
	"ru": {"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	"uz": {"Ya", "Du", "Se", "Ch", "Pa", "Ju", "Sh"},
	"en": {"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
}

// GetWeekdayShortName возвращает краткое название дня недели
func GetWeekdayShortName(weekday int, lang string) string {
	names, ok := weekdayShortNames[lang]
	if !ok {
		names = weekdayShortNames["ru"]
	}
	if weekday >= 0 && weekday < len(names) {
		return names[weekday]
	}
	return "?"
}
