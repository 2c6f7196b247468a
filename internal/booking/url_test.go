package booking

import (
	"net/url"
	"testing"
	"time"

	"github.com/betterhotel/booking-calendar/internal/models"
)

func TestURL(t *testing.T) {
	start := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, time.June, 13, 0, 0, 0, 0, time.Local)
	sel := models.Selection{Start: &start, End: &end}

	got, err := URL(sel, Params{
		BaseURL:  "https://book.example.com/search",
		Guests:   2,
		Currency: "CZK",
		UnitID:   "unit-7",
	})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("parse result: %v", err)
	}
	q := u.Query()

	checks := map[string]string{
		"checkin":  "2024-06-10",
		"checkout": "2024-06-13",
		"guests":   "2",
		"currency": "CZK",
		"unit":     "unit-7",
	}
	for key, want := range checks {
		if q.Get(key) != want {
			t.Errorf("query %q = %q, want %q", key, q.Get(key), want)
		}
	}
}

func TestURL_PreservesBaseQuery(t *testing.T) {
	start := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, time.June, 12, 0, 0, 0, 0, time.Local)
	sel := models.Selection{Start: &start, End: &end}

	got, err := URL(sel, Params{BaseURL: "https://book.example.com/search?lang=cs"})
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}

	u, _ := url.Parse(got)
	if u.Query().Get("lang") != "cs" {
		t.Errorf("base query lost: %s", got)
	}
	if u.Query().Get("guests") != "" {
		t.Errorf("guests must be omitted when zero: %s", got)
	}
}

func TestURL_IncompleteSelection(t *testing.T) {
	start := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)

	cases := []struct {
		name string
		sel  models.Selection
	}{
		{"empty", models.Selection{}},
		{"start only", models.Selection{Start: &start}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := URL(tc.sel, Params{BaseURL: "https://x"}); err != ErrIncompleteSelection {
				t.Errorf("err = %v, want ErrIncompleteSelection", err)
			}
		})
	}
}
