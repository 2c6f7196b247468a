package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/pricing"
	"github.com/betterhotel/booking-calendar/internal/validation"
)

func june(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.Local)
}

// juneAvailability карта на июнь 2024: все дни доступны по 1000,
// кроме перечисленных недоступных.
func juneAvailability(unavailable ...int) models.AvailabilityMap {
	avail := models.AvailabilityMap{}
	for d := 1; d <= 30; d++ {
		avail[dates.FormatKey(june(d))] = models.DayRecord{Available: true, Price: 1000, MinStay: 1}
	}
	for _, d := range unavailable {
		avail[dates.FormatKey(june(d))] = models.DayRecord{Available: false}
	}
	return avail
}

func newTestMachine(t *testing.T, avail models.AvailabilityMap) *Machine {
	t.Helper()
	m := New(
		validation.Rules{MinNights: 2, MaxNights: 5},
		pricing.Config{Strategy: models.StrategyAPI, PricePerNight: 800},
	)
	m.now = func() time.Time { return june(1) }
	m.SetMonth(june(1))
	m.SetAvailability(avail)
	return m
}

func TestMachine_ClickSelectsCheckIn(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	res := m.Click(june(10))
	require.True(t, res.Valid)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
	assert.Empty(t, snap.ErrorKind)
}

func TestMachine_ClickRejectsUnavailableCheckIn(t *testing.T) {
	m := newTestMachine(t, juneAvailability(10))

	res := m.Click(june(10))
	require.False(t, res.Valid)
	assert.Equal(t, models.ErrNotAvailable, res.Kind)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseEmpty, snap.Selection.Phase())
	assert.Equal(t, models.ErrNotAvailable, snap.ErrorKind)
}

func TestMachine_ClickRejectsPastDate(t *testing.T) {
	m := newTestMachine(t, juneAvailability())
	m.now = func() time.Time { return june(15) }

	res := m.Click(june(10))
	require.False(t, res.Valid)
	assert.Equal(t, models.ErrPastDate, res.Kind)
	assert.Equal(t, models.PhaseEmpty, m.Snapshot().Selection.Phase())
}

func TestMachine_ClickCompletesRange(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	require.True(t, m.Click(june(13)).Valid)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseComplete, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
	assert.True(t, dates.IsSameDay(*snap.Selection.End, june(13)))
	assert.Equal(t, 3, snap.Pricing.Nights)
	assert.Equal(t, 3000.0, snap.Pricing.TotalPrice)
	assert.Equal(t, models.StrategyAPI, snap.Pricing.Strategy)
}

func TestMachine_SameDayClickRestarts(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	require.True(t, m.Click(june(10)).Valid)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
}

func TestMachine_ClickSwapsEarlierDate(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(13)).Valid)
	require.True(t, m.Click(june(10)).Valid)

	snap := m.Snapshot()
	require.Equal(t, models.PhaseComplete, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
	assert.True(t, dates.IsSameDay(*snap.Selection.End, june(13)))
}

func TestMachine_MinStayRejectionKeepsCheckIn(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	res := m.Click(june(11))
	require.False(t, res.Valid)
	assert.Equal(t, models.ErrMinStay, res.Kind)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
	assert.Equal(t, models.ErrMinStay, snap.ErrorKind)
}

func TestMachine_OutOfRangeClickStealsCheckIn(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	// MaxNights=5: достижимый выезд 15 июня, клик по 20 июня начинает
	// новый выбор.
	res := m.Click(june(20))
	require.True(t, res.Valid)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(20)))
}

func TestMachine_OutOfRangeUnavailableClickFails(t *testing.T) {
	m := newTestMachine(t, juneAvailability(20))

	require.True(t, m.Click(june(10)).Valid)
	res := m.Click(june(20))
	require.False(t, res.Valid)
	assert.Equal(t, models.ErrMaxStay, res.Kind)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))
}

func TestMachine_CompleteClickRestarts(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	require.True(t, m.Click(june(13)).Valid)
	require.True(t, m.Click(june(5)).Valid)

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(5)))
	assert.Equal(t, 0, snap.Pricing.Nights)
}

func TestMachine_HoverClampsToReachableCheckout(t *testing.T) {
	m := newTestMachine(t, juneAvailability(13))

	require.True(t, m.Click(june(10)).Valid)
	// 13 июня недоступно: достижимый выезд 12 июня.
	m.Hover(june(20))

	snap := m.Snapshot()
	require.NotNil(t, snap.HoverEnd)
	assert.True(t, dates.IsSameDay(*snap.HoverEnd, june(12)))
}

func TestMachine_HoverIgnoredOutsideAwaitingCheckout(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	m.Hover(june(12))
	assert.Nil(t, m.Snapshot().HoverEnd)

	require.True(t, m.Click(june(10)).Valid)
	m.Hover(june(12))
	require.NotNil(t, m.Snapshot().HoverEnd)

	m.HoverLeave()
	assert.Nil(t, m.Snapshot().HoverEnd)
}

func TestMachine_HoverBeforeStartClears(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	m.Hover(june(12))
	require.NotNil(t, m.Snapshot().HoverEnd)

	m.Hover(june(8))
	assert.Nil(t, m.Snapshot().HoverEnd)
}

func TestMachine_Clear(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	require.True(t, m.Click(june(13)).Valid)
	m.Clear()

	snap := m.Snapshot()
	assert.Equal(t, models.PhaseEmpty, snap.Selection.Phase())
	assert.Empty(t, snap.ErrorKind)
	assert.Equal(t, 0, snap.Pricing.Nights)
	assert.Nil(t, snap.HoverEnd)
}

func TestMachine_Navigate(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	got := m.Navigate(1)
	assert.True(t, dates.IsSameDay(got, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.Local)))

	got = m.Navigate(-2)
	assert.True(t, dates.IsSameDay(got, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local)))
}

func TestMachine_SetAvailabilityRecomputesPricing(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	require.True(t, m.Click(june(10)).Valid)
	require.True(t, m.Click(june(12)).Valid)
	require.Equal(t, 2000.0, m.Snapshot().Pricing.TotalPrice)

	updated := juneAvailability()
	updated[dates.FormatKey(june(10))] = models.DayRecord{Available: true, Price: 1500}
	m.SetAvailability(updated)

	assert.Equal(t, 2500.0, m.Snapshot().Pricing.TotalPrice)
}

func TestMachine_ObserverNotifications(t *testing.T) {
	m := newTestMachine(t, juneAvailability())

	var selections, errors, any int
	unsubSel := m.Subscribe(FieldSelection, func(field Field, snap Snapshot) {
		assert.Equal(t, FieldSelection, field)
		selections++
	})
	m.Subscribe(FieldError, func(field Field, snap Snapshot) { errors++ })
	m.Subscribe(FieldAny, func(field Field, snap Snapshot) { any++ })

	require.True(t, m.Click(june(10)).Valid)
	assert.Equal(t, 1, selections)
	assert.Equal(t, 1, errors)
	assert.Greater(t, any, 0)

	require.False(t, m.Click(june(11)).Valid)
	assert.Equal(t, 1, selections, "rejected click must not touch selection")
	assert.Equal(t, 2, errors)

	unsubSel()
	require.True(t, m.Click(june(13)).Valid)
	assert.Equal(t, 1, selections, "unsubscribed observer must not fire")
}

func TestJournal_Undo(t *testing.T) {
	m := newTestMachine(t, juneAvailability())
	j := NewJournal(m, 10)

	require.True(t, j.Click(june(10)).Valid)
	require.True(t, j.Click(june(13)).Valid)
	require.Equal(t, models.PhaseComplete, m.Snapshot().Selection.Phase())

	require.True(t, j.Undo())
	snap := m.Snapshot()
	assert.Equal(t, models.PhaseAwaitingCheckout, snap.Selection.Phase())
	assert.True(t, dates.IsSameDay(*snap.Selection.Start, june(10)))

	require.True(t, j.Undo())
	assert.Equal(t, models.PhaseEmpty, m.Snapshot().Selection.Phase())

	assert.False(t, j.Undo(), "empty history")
}

func TestJournal_BoundedDepth(t *testing.T) {
	m := newTestMachine(t, juneAvailability())
	j := NewJournal(m, 2)

	j.Clear()
	j.Navigate(1)
	require.True(t, j.Click(june(10)).Valid)
	assert.Equal(t, 2, j.Len())

	assert.True(t, j.Undo())
	assert.True(t, j.Undo())
	assert.False(t, j.Undo())
}
