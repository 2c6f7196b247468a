// Package selection реализует машину состояний выбора диапазона дат:
// пустой выбор, ожидание даты выезда, завершённый диапазон. Машина
// чистая по отношению к транспорту и хранению: она знает только карту
// доступности, правила проверки и политику ценообразования.
package selection

import (
	"time"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/pricing"
	"github.com/betterhotel/booking-calendar/internal/validation"
)

// Field типизированный канал уведомлений наблюдателей. Подписка на
// FieldAny срабатывает при любом изменении.
type Field int

const (
	FieldAny Field = iota
	FieldSelection
	FieldError
	FieldPricing
	FieldMonth
	FieldAvailability
	FieldHover
)

// Snapshot неизменяемый срез состояния машины на момент вызова.
type Snapshot struct {
	Selection    models.Selection
	Month        time.Time
	HoverEnd     *time.Time
	ErrorKind    models.ErrorKind
	Pricing      models.PricingResult
	Availability models.AvailabilityMap
}

// Observer получает поле, вызвавшее уведомление, и срез состояния.
type Observer func(field Field, snap Snapshot)

type subscriber struct {
	id    int
	field Field
	fn    Observer
}

// Machine машина состояний одной сессии календаря. Не защищена
// собственным мьютексом: вызывающая сторона сериализует обращения.
type Machine struct {
	rules      validation.Rules
	pricingCfg pricing.Config

	avail     models.AvailabilityMap
	selection models.Selection
	month     time.Time
	hoverEnd  *time.Time
	errorKind models.ErrorKind
	pricing   models.PricingResult

	subs   []subscriber
	nextID int

	now func() time.Time
}

// New создаёт машину с пустым выбором и текущим месяцем.
func New(rules validation.Rules, pricingCfg pricing.Config) *Machine {
	m := &Machine{
		rules:      rules,
		pricingCfg: pricingCfg,
		avail:      models.AvailabilityMap{},
		now:        time.Now,
	}
	m.month = dates.FirstOfMonth(m.now())
	m.pricing = pricing.Quote(m.selection, m.avail, m.pricingCfg)
	return m
}

// Subscribe регистрирует наблюдателя на поле и возвращает функцию
// отписки. Наблюдатели вызываются синхронно после мутации.
func (m *Machine) Subscribe(field Field, fn Observer) func() {
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, field: field, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Snapshot возвращает срез текущего состояния.
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		Selection:    m.selection,
		Month:        m.month,
		HoverEnd:     m.hoverEnd,
		ErrorKind:    m.errorKind,
		Pricing:      m.pricing,
		Availability: m.avail,
	}
}

// SetAvailability заменяет карту доступности. Завершённый выбор
// пересчитывается по новым ценам, сам диапазон не сбрасывается.
func (m *Machine) SetAvailability(avail models.AvailabilityMap) {
	if avail == nil {
		avail = models.AvailabilityMap{}
	}
	m.avail = avail
	changed := []Field{FieldAvailability}
	if m.selection.IsComplete() {
		m.pricing = pricing.Quote(m.selection, m.avail, m.pricingCfg)
		changed = append(changed, FieldPricing)
	}
	m.notify(changed...)
}

// Click обрабатывает клик по дате и возвращает результат проверки.
// Отклонённый клик не меняет выбор, но записывает вид ошибки.
func (m *Machine) Click(date time.Time) models.ValidationResult {
	date = dates.Midnight(date)
	today := dates.Midnight(m.now())

	switch m.selection.Phase() {
	case models.PhaseAwaitingCheckout:
		start := *m.selection.Start

		// Повторный клик по дате заезда перезапускает выбор той же датой.
		if dates.IsSameDay(date, start) {
			m.commitStart(date)
			return models.OK()
		}

		// Клик за пределом достижимого выезда начинает новый выбор,
		// если дата сама годится как заезд.
		if date.After(start) {
			maxEnd := validation.MaxReachableCheckout(start, m.avail, m.rules.MaxNights)
			if date.After(maxEnd) {
				if res := validation.ValidateCheckInDate(date, today, m.avail); res.Valid {
					m.commitStart(date)
					return res
				}
			}
		}

		newStart, newEnd := validation.ResolveSwap(start, date)
		res := validation.ValidateCheckOutDate(newEnd, newStart, m.avail, m.rules)
		if !res.Valid {
			m.fail(res.Kind)
			return res
		}
		m.commitRange(newStart, newEnd)
		return res

	default:
		// Пустой или завершённый выбор: клик назначает новую дату заезда.
		res := validation.ValidateCheckInDate(date, today, m.avail)
		if !res.Valid {
			m.fail(res.Kind)
			return res
		}
		m.commitStart(date)
		return res
	}
}

// Hover обновляет предварительный конец диапазона при наведении.
// Действует только в фазе ожидания выезда; дата за пределом
// достижимого выезда прижимается к нему.
func (m *Machine) Hover(date time.Time) {
	if m.selection.Phase() != models.PhaseAwaitingCheckout {
		return
	}
	date = dates.Midnight(date)
	start := *m.selection.Start
	if !date.After(start) {
		m.clearHover()
		return
	}
	maxEnd := validation.MaxReachableCheckout(start, m.avail, m.rules.MaxNights)
	if date.After(maxEnd) {
		date = maxEnd
	}
	if m.hoverEnd != nil && dates.IsSameDay(*m.hoverEnd, date) {
		return
	}
	m.hoverEnd = &date
	m.notify(FieldHover)
}

// HoverLeave сбрасывает предварительный конец диапазона.
func (m *Machine) HoverLeave() {
	m.clearHover()
}

// Clear сбрасывает выбор, ошибку и расчёт стоимости.
func (m *Machine) Clear() {
	m.selection = models.Selection{}
	m.hoverEnd = nil
	m.errorKind = ""
	m.pricing = pricing.Quote(m.selection, m.avail, m.pricingCfg)
	m.notify(FieldSelection, FieldError, FieldPricing, FieldHover)
}

// Navigate сдвигает отображаемый месяц на delta месяцев и возвращает
// первый день нового месяца.
func (m *Machine) Navigate(delta int) time.Time {
	m.month = dates.AddMonths(m.month, delta)
	m.notify(FieldMonth)
	return m.month
}

// SetMonth устанавливает отображаемый месяц напрямую.
func (m *Machine) SetMonth(month time.Time) {
	m.month = dates.FirstOfMonth(month)
	m.notify(FieldMonth)
}

func (m *Machine) commitStart(date time.Time) {
	m.selection = models.Selection{Start: &date}
	m.errorKind = ""
	m.hoverEnd = nil
	m.pricing = pricing.Quote(m.selection, m.avail, m.pricingCfg)
	m.notify(FieldSelection, FieldError, FieldPricing, FieldHover)
}

func (m *Machine) commitRange(start, end time.Time) {
	m.selection = models.Selection{Start: &start, End: &end}
	m.errorKind = ""
	m.hoverEnd = nil
	m.pricing = pricing.Quote(m.selection, m.avail, m.pricingCfg)
	m.notify(FieldSelection, FieldError, FieldPricing, FieldHover)
}

func (m *Machine) fail(kind models.ErrorKind) {
	m.errorKind = kind
	m.notify(FieldError)
}

func (m *Machine) clearHover() {
	if m.hoverEnd == nil {
		return
	}
	m.hoverEnd = nil
	m.notify(FieldHover)
}

func (m *Machine) restore(snap Snapshot) {
	m.selection = snap.Selection
	m.month = snap.Month
	m.hoverEnd = snap.HoverEnd
	m.errorKind = snap.ErrorKind
	m.pricing = snap.Pricing
	m.avail = snap.Availability
	m.notify(FieldSelection, FieldError, FieldPricing, FieldMonth, FieldAvailability, FieldHover)
}

func (m *Machine) notify(fields ...Field) {
	if len(m.subs) == 0 {
		return
	}
	snap := m.Snapshot()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	for _, field := range fields {
		for _, s := range subs {
			if s.field == field || s.field == FieldAny {
				s.fn(field, snap)
			}
		}
	}
}
