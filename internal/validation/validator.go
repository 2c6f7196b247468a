// Package validation содержит чистые функции проверки выбора дат заезда/выезда.
// Функции не имеют побочных эффектов и состояния: их можно тестировать
// на литеральных таблицах доступности без сети и отрисовки.
package validation

import (
	"time"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
)

// Rules бизнес-правила длительности проживания.
type Rules struct {
	MinNights int
	MaxNights int
}

// ValidateSelection проверяет полную пару заезд/выезд.
// Частичный выбор (любая из дат nil) всегда предварительно валиден.
//
// Правило turnover: день выезда может быть недоступен — выезд предыдущего
// гостя не блокирует этот день, поэтому диапазон проверяется полуоткрыто,
// без даты выезда.
func ValidateSelection(start, end *time.Time, avail models.AvailabilityMap, rules Rules) models.ValidationResult {
	if start == nil || end == nil {
		return models.OK()
	}

	nights := dates.NightsBetween(*start, *end)
	if nights < rules.MinNights {
		return models.Fail(models.ErrMinStay)
	}
	if nights > rules.MaxNights {
		return models.Fail(models.ErrMaxStay)
	}

	if rec, ok := avail[dates.FormatKey(*start)]; ok && rec.CloseToArrival {
		return models.Fail(models.ErrNoArrival)
	}

	for _, night := range dates.Nights(*start, *end) {
		// Отсутствие записи трактуется разрешительно: фид может не
		// возвращать все дни.
		if rec, ok := avail[dates.FormatKey(night)]; ok && !rec.Available {
			return models.Fail(models.ErrUnavailableInRange)
		}
	}

	return models.OK()
}

// ValidateCheckInDate проверяет, годится ли дата как день заезда.
// Прошедшие дни отклоняются; сегодняшний день прошедшим не считается.
// Отсутствие записи в карте доступности означает "валидна".
func ValidateCheckInDate(date, today time.Time, avail models.AvailabilityMap) models.ValidationResult {
	if dates.Midnight(date).Before(dates.Midnight(today)) {
		return models.Fail(models.ErrPastDate)
	}

	if rec, ok := avail[dates.FormatKey(date)]; ok {
		if !rec.Available {
			return models.Fail(models.ErrNotAvailable)
		}
		if rec.CloseToArrival {
			return models.Fail(models.ErrNoArrival)
		}
	}

	return models.OK()
}

// ValidateCheckOutDate проверяет дату выезда для уже выбранного заезда:
// выезд должен быть строго позже заезда, затем проверяется весь диапазон.
func ValidateCheckOutDate(end, start time.Time, avail models.AvailabilityMap, rules Rules) models.ValidationResult {
	if !dates.Midnight(end).After(dates.Midnight(start)) {
		return models.Fail(models.ErrInvalidRange)
	}
	return ValidateSelection(&start, &end, avail, rules)
}

// MaxReachableCheckout возвращает самую позднюю достижимую дату выезда
// для заданного заезда: идёт вперёд по дням до maxNights ночей и
// останавливается на дне перед первым недоступным днём.
// Это эксклюзивная верхняя граница, по которой UI и валидатор решают,
// попадает ли кликнутая дата "в диапазон".
func MaxReachableCheckout(start time.Time, avail models.AvailabilityMap, maxNights int) time.Time {
	cur := dates.Midnight(start)
	for i := 0; i < maxNights; i++ {
		next := dates.AddDays(cur, 1)
		if rec, ok := avail[dates.FormatKey(next)]; ok && !rec.Available {
			return cur
		}
		cur = next
	}
	return cur
}

// ResolveSwap упорядочивает пару дат: более ранняя становится заездом.
// Равные даты валидной парой не являются — вызывающий обязан трактовать
// их как перезапуск выбора.
func ResolveSwap(start, candidateEnd time.Time) (time.Time, time.Time) {
	if dates.Midnight(candidateEnd).Before(dates.Midnight(start)) {
		return candidateEnd, start
	}
	return start, candidateEnd
}

// IsDateSelectable решает, кликабельна ли дата в текущей фазе выбора.
// Используется при построении флагов отрисовки; бизнес-правила те же,
// что и у Click, но без побочных эффектов.
func IsDateSelectable(date, today time.Time, sel models.Selection, avail models.AvailabilityMap, rules Rules) bool {
	if dates.Midnight(date).Before(dates.Midnight(today)) {
		return false
	}

	switch sel.Phase() {
	case models.PhaseEmpty:
		// Без выбранного заезда кликабельны только дни, про которые фид
		// явно сказал "доступен и заезд разрешён".
		rec, ok := avail[dates.FormatKey(date)]
		return ok && rec.Available && !rec.CloseToArrival
	case models.PhaseAwaitingCheckout:
		maxEnd := MaxReachableCheckout(*sel.Start, avail, rules.MaxNights)
		if dates.Midnight(date).After(maxEnd) {
			// Дата вне диапазона может "украсть" клик, если сама годится
			// как новый заезд.
			return ValidateCheckInDate(date, today, avail).Valid
		}
		rec, ok := avail[dates.FormatKey(date)]
		return ok && rec.Available
	default:
		return ValidateCheckInDate(date, today, avail).Valid
	}
}
