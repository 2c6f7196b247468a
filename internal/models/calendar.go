// Package models содержит доменные структуры календаря доступности,
// а также вспомогательные типы для работы с данными из внешних источников (JSON-фид, запросы).
package models

import "time"

// DayRecord описывает факты одного календарного дня из фида доступности.
// Отсутствие записи для даты трактуется разрешительно: "считаем доступным".
type DayRecord struct {
	Available      bool    `json:"available"`        // День доступен для проживания
	CloseToArrival bool    `json:"close_to_arrival"` // В этот день нельзя заезжать
	Price          float64 `json:"price"`            // Цена за ночь, 0 — цены нет
	MinStay        int     `json:"min_stay"`         // Минимальная длительность при заезде в этот день
}

// AvailabilityMap отображение ISO-даты (YYYY-MM-DD, локальный календарь)
// в DayRecord. Заменяется целиком при каждом обновлении фида,
// частичное слияние не выполняется.
type AvailabilityMap map[string]DayRecord

// Selection выбранная пара заезд/выезд.
// Инвариант: если End != nil, то Start != nil и Start строго раньше End.
type Selection struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// SelectionPhase фаза выбора, производная от Selection.
type SelectionPhase string

const (
	// PhaseEmpty дата заезда не выбрана.
	PhaseEmpty SelectionPhase = "empty"
	// PhaseAwaitingCheckout заезд выбран, ожидается выбор выезда.
	PhaseAwaitingCheckout SelectionPhase = "awaiting_checkout"
	// PhaseComplete выбрана валидная пара заезд/выезд.
	PhaseComplete SelectionPhase = "complete"
)

// Phase возвращает текущую фазу выбора.
func (s Selection) Phase() SelectionPhase {
	switch {
	case s.Start == nil:
		return PhaseEmpty
	case s.End == nil:
		return PhaseAwaitingCheckout
	default:
		return PhaseComplete
	}
}

// IsComplete сообщает, выбраны ли обе даты.
func (s Selection) IsComplete() bool {
	return s.Start != nil && s.End != nil
}

// ErrorKind вид нарушения бизнес-правила при выборе дат.
// Значения стабильны: хост-приложение подбирает по ним локализованный текст.
type ErrorKind string

const (
	// ErrPastDate дата заезда раньше сегодняшнего дня.
	ErrPastDate ErrorKind = "past_date"
	// ErrNotAvailable день помечен недоступным.
	ErrNotAvailable ErrorKind = "not_available"
	// ErrNoArrival в этот день запрещён заезд (close_to_arrival).
	ErrNoArrival ErrorKind = "no_arrival"
	// ErrMinStay ночей меньше настроенного минимума.
	ErrMinStay ErrorKind = "min_stay_violation"
	// ErrMaxStay ночей больше настроенного максимума.
	ErrMaxStay ErrorKind = "max_stay_violation"
	// ErrUnavailableInRange внутри диапазона есть недоступная ночь
	// (день выезда не считается, см. правило turnover).
	ErrUnavailableInRange ErrorKind = "unavailable_in_range"
	// ErrInvalidRange дата выезда не позже даты заезда.
	ErrInvalidRange ErrorKind = "invalid_range"
)

// ValidationResult результат проверки кандидата на выбор.
// Возвращается значением, никогда не является исключением:
// отклонённый выбор — ожидаемое, восстановимое состояние.
type ValidationResult struct {
	Valid bool      `json:"valid"`
	Kind  ErrorKind `json:"kind,omitempty"`
}

// OK успешный результат валидации.
func OK() ValidationResult {
	return ValidationResult{Valid: true}
}

// Fail результат валидации с указанным видом нарушения.
func Fail(kind ErrorKind) ValidationResult {
	return ValidationResult{Valid: false, Kind: kind}
}

// PriceSource источник цены за ночь.
type PriceSource string

const (
	// SourceAPI цена пришла из фида.
	SourceAPI PriceSource = "api"
	// SourceFallback у фида нет цены, подставлена цена по умолчанию.
	SourceFallback PriceSource = "fallback"
	// SourceFixed фиксированная цена из конфигурации.
	SourceFixed PriceSource = "fixed"
)

// PriceStrategy итоговая стратегия расчёта стоимости.
type PriceStrategy string

const (
	// StrategyFixed фиксированная цена за ночь.
	StrategyFixed PriceStrategy = "fixed"
	// StrategyAPI хотя бы одна ночь посчитана по цене фида.
	StrategyAPI PriceStrategy = "api"
	// StrategyFallback API-режим, но ни одной цены фид не дал.
	StrategyFallback PriceStrategy = "fallback"
)

// PriceBreakdownEntry цена одной ночи из полуоткрытого диапазона [заезд, выезд).
type PriceBreakdownEntry struct {
	Date   time.Time   `json:"date"`
	Price  float64     `json:"price"`
	Source PriceSource `json:"source"`
}

// PricingResult итог расчёта стоимости выбранного диапазона.
// Пересчитывается при каждом изменении Selection и не переживает его.
type PricingResult struct {
	Nights       int                   `json:"nights"`
	TotalPrice   float64               `json:"total_price"`
	Breakdown    []PriceBreakdownEntry `json:"breakdown"`
	Strategy     PriceStrategy         `json:"strategy"`
	HasAPIPrices bool                  `json:"has_api_prices"`
}
