// Package dates содержит чистую календарную арифметику для виджета:
// форматирование и разбор ключей дат, счёт ночей, полуоткрытые диапазоны.
// Все операции работают в локальном календаре без конвертации в UTC.
package dates

import "time"

// Layout формат ключа даты в карте доступности и в API.
const Layout = "2006-01-02"

// Midnight усечение к началу локального календарного дня.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatKey форматирует дату как YYYY-MM-DD.
func FormatKey(t time.Time) string {
	return t.Format(Layout)
}

// ParseKey разбирает ключ YYYY-MM-DD в локальную полночь.
func ParseKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// AddDays прибавляет n календарных дней.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n, 0, 0, 0, 0, t.Location())
}

// AddMonths прибавляет n месяцев, оставаясь на первом числе месяца.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), time.Month(int(t.Month())+n), 1, 0, 0, 0, 0, t.Location())
}

// NightsBetween считает количество ночей между двумя датами как разницу
// календарных дней. Счёт через дни, а не через деление миллисекунд:
// переходы на летнее время не должны давать 23/25-часовые сутки.
func NightsBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// IsSameDay проверяет совпадение календарного дня.
func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// InRange проверяет принадлежность даты полуоткрытому диапазону [start, end).
func InRange(date, start, end time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(start)) && d.Before(Midnight(end))
}

// Nights возвращает даты всех ночей диапазона [start, end).
func Nights(start, end time.Time) []time.Time {
	var out []time.Time
	for cur := Midnight(start); cur.Before(Midnight(end)); cur = AddDays(cur, 1) {
		out = append(out, cur)
	}
	return out
}

// FirstOfMonth первое число месяца даты.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// LastOfMonth последнее число месяца даты.
func LastOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

// MonthWindow возвращает окно загрузки доступности для текущего месяца:
// с первого числа месяца по последнее число следующего месяца включительно.
// Виджет показывает два месяца сразу, фид запрашивается на всё окно.
func MonthWindow(month time.Time) (time.Time, time.Time) {
	from := FirstOfMonth(month)
	to := time.Date(month.Year(), month.Month()+2, 0, 0, 0, 0, 0, month.Location())
	return from, to
}
