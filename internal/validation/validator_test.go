package validation

import (
	"testing"
	"time"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
)

var today = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.Local)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func ptr(t time.Time) *time.Time { return &t }

func TestValidateCheckInDate_TableTests(t *testing.T) {
	avail := models.AvailabilityMap{
		"2024-06-10": {Available: false},
		"2024-06-11": {Available: true, CloseToArrival: true},
		"2024-06-12": {Available: true},
	}

	tests := []struct {
		name     string
		date     time.Time
		wantOK   bool
		wantKind models.ErrorKind
	}{
		{"past date", day(2024, time.May, 20), false, models.ErrPastDate},
		{"today is not past", today, true, ""},
		{"unavailable day", day(2024, time.June, 10), false, models.ErrNotAvailable},
		{"close to arrival", day(2024, time.June, 11), false, models.ErrNoArrival},
		{"available day", day(2024, time.June, 12), true, ""},
		{"missing record is permissive", day(2024, time.June, 25), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCheckInDate(tt.date, today, avail)
			if got.Valid != tt.wantOK || got.Kind != tt.wantKind {
				t.Errorf("ValidateCheckInDate(%s) = %+v, want valid=%v kind=%q",
					dates.FormatKey(tt.date), got, tt.wantOK, tt.wantKind)
			}
		})
	}
}

func TestValidateSelection_TableTests(t *testing.T) {
	rules := Rules{MinNights: 2, MaxNights: 5}
	avail := models.AvailabilityMap{
		"2024-06-10": {Available: false},
		"2024-06-08": {Available: true},
		"2024-06-09": {Available: true},
		"2024-06-20": {Available: true, CloseToArrival: true},
	}

	tests := []struct {
		name       string
		start, end *time.Time
		wantOK     bool
		wantKind   models.ErrorKind
	}{
		{"both nil", nil, nil, true, ""},
		{"end nil is provisionally valid", ptr(day(2024, time.June, 8)), nil, true, ""},
		{"below min stay", ptr(day(2024, time.June, 8)), ptr(day(2024, time.June, 9)), false, models.ErrMinStay},
		{"above max stay", ptr(day(2024, time.June, 12)), ptr(day(2024, time.June, 19)), false, models.ErrMaxStay},
		{"close to arrival start", ptr(day(2024, time.June, 20)), ptr(day(2024, time.June, 23)), false, models.ErrNoArrival},
		// Правило turnover: выезд в недоступный день валиден.
		{"checkout on unavailable day", ptr(day(2024, time.June, 8)), ptr(day(2024, time.June, 10)), true, ""},
		// Та же недоступная дата внутренней ночью — уже нет.
		{"unavailable interior night", ptr(day(2024, time.June, 8)), ptr(day(2024, time.June, 11)), false, models.ErrUnavailableInRange},
		{"all missing records are permissive", ptr(day(2024, time.July, 1)), ptr(day(2024, time.July, 4)), true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSelection(tt.start, tt.end, avail, rules)
			if got.Valid != tt.wantOK || got.Kind != tt.wantKind {
				t.Errorf("ValidateSelection() = %+v, want valid=%v kind=%q", got, tt.wantOK, tt.wantKind)
			}
		})
	}
}

func TestValidateCheckOutDate(t *testing.T) {
	rules := Rules{MinNights: 1, MaxNights: 30}
	start := day(2024, time.June, 10)

	if got := ValidateCheckOutDate(day(2024, time.June, 10), start, nil, rules); got.Valid || got.Kind != models.ErrInvalidRange {
		t.Errorf("same-day checkout = %+v, want invalid_range", got)
	}
	if got := ValidateCheckOutDate(day(2024, time.June, 8), start, nil, rules); got.Valid || got.Kind != models.ErrInvalidRange {
		t.Errorf("checkout before checkin = %+v, want invalid_range", got)
	}
	if got := ValidateCheckOutDate(day(2024, time.June, 12), start, nil, rules); !got.Valid {
		t.Errorf("valid checkout = %+v, want valid", got)
	}
}

func TestMaxReachableCheckout(t *testing.T) {
	start := day(2024, time.June, 10)

	t.Run("no blockers walks max nights", func(t *testing.T) {
		got := MaxReachableCheckout(start, nil, 5)
		if !dates.IsSameDay(got, day(2024, time.June, 15)) {
			t.Errorf("MaxReachableCheckout = %v, want 2024-06-15", got)
		}
	})

	t.Run("stops before unavailable day", func(t *testing.T) {
		avail := models.AvailabilityMap{"2024-06-13": {Available: false}}
		got := MaxReachableCheckout(start, avail, 10)
		if !dates.IsSameDay(got, day(2024, time.June, 12)) {
			t.Errorf("MaxReachableCheckout = %v, want 2024-06-12", got)
		}
	})

	t.Run("next day unavailable pins to start", func(t *testing.T) {
		avail := models.AvailabilityMap{"2024-06-11": {Available: false}}
		got := MaxReachableCheckout(start, avail, 10)
		if !dates.IsSameDay(got, start) {
			t.Errorf("MaxReachableCheckout = %v, want start itself", got)
		}
	})

	t.Run("unavailable checkout day beyond window ignored", func(t *testing.T) {
		avail := models.AvailabilityMap{"2024-06-20": {Available: false}}
		got := MaxReachableCheckout(start, avail, 3)
		if !dates.IsSameDay(got, day(2024, time.June, 13)) {
			t.Errorf("MaxReachableCheckout = %v, want 2024-06-13", got)
		}
	})
}

func TestResolveSwap_SwapLaw(t *testing.T) {
	a := day(2024, time.June, 10)
	b := day(2024, time.June, 15)

	// Независимо от порядка кликов более ранняя дата становится заездом.
	s1, e1 := ResolveSwap(a, b)
	s2, e2 := ResolveSwap(b, a)
	if !dates.IsSameDay(s1, a) || !dates.IsSameDay(e1, b) {
		t.Errorf("ResolveSwap(a,b) = %v,%v", s1, e1)
	}
	if !dates.IsSameDay(s2, a) || !dates.IsSameDay(e2, b) {
		t.Errorf("ResolveSwap(b,a) = %v,%v, want a,b", s2, e2)
	}

	s3, e3 := ResolveSwap(a, a)
	if !dates.IsSameDay(s3, a) || !dates.IsSameDay(e3, a) {
		t.Errorf("ResolveSwap(a,a) changed dates: %v,%v", s3, e3)
	}
}

func TestIsDateSelectable(t *testing.T) {
	rules := Rules{MinNights: 1, MaxNights: 5}
	avail := models.AvailabilityMap{
		"2024-06-10": {Available: true},
		"2024-06-11": {Available: true},
		"2024-06-12": {Available: false},
		"2024-06-13": {Available: true, CloseToArrival: true},
	}

	t.Run("empty phase needs explicit availability", func(t *testing.T) {
		var sel models.Selection
		if !IsDateSelectable(day(2024, time.June, 10), today, sel, avail, rules) {
			t.Error("available day should be selectable")
		}
		if IsDateSelectable(day(2024, time.June, 12), today, sel, avail, rules) {
			t.Error("unavailable day should not be selectable")
		}
		if IsDateSelectable(day(2024, time.June, 13), today, sel, avail, rules) {
			t.Error("close-to-arrival day should not be selectable as check-in")
		}
		if IsDateSelectable(day(2024, time.June, 25), today, sel, avail, rules) {
			t.Error("day without record should not be selectable before feed data arrives")
		}
	})

	t.Run("awaiting checkout", func(t *testing.T) {
		start := day(2024, time.June, 10)
		sel := models.Selection{Start: &start}
		// maxEnd = 2024-06-11: день 12 недоступен.
		if !IsDateSelectable(day(2024, time.June, 11), today, sel, avail, rules) {
			t.Error("day within reachable range should be selectable")
		}
		// Вне диапазона, но без записи — валидный новый заезд, клик крадётся.
		if !IsDateSelectable(day(2024, time.June, 25), today, sel, avail, rules) {
			t.Error("out-of-range valid check-in should steal the click")
		}
		// Вне диапазона и сам недоступен.
		if IsDateSelectable(day(2024, time.June, 12), today, sel, avail, rules) {
			t.Error("out-of-range unavailable day should not be selectable")
		}
	})

	t.Run("complete phase behaves like check-in validation", func(t *testing.T) {
		start := day(2024, time.June, 10)
		end := day(2024, time.June, 11)
		sel := models.Selection{Start: &start, End: &end}
		if !IsDateSelectable(day(2024, time.June, 25), today, sel, avail, rules) {
			t.Error("any valid check-in should be selectable after completion")
		}
		if IsDateSelectable(day(2024, time.May, 1), today, sel, avail, rules) {
			t.Error("past day should never be selectable")
		}
	})
}

func TestValidateCheckInDate_AllPastDatesFail(t *testing.T) {
	for i := 1; i <= 45; i++ {
		d := dates.AddDays(today, -i)
		got := ValidateCheckInDate(d, today, nil)
		if got.Valid || got.Kind != models.ErrPastDate {
			t.Fatalf("ValidateCheckInDate(%s) = %+v, want past_date", dates.FormatKey(d), got)
		}
	}
}
