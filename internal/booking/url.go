// Package booking собирает ссылку перехода на страницу бронирования
// для завершённого выбора дат.
package booking

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
)

// ErrIncompleteSelection выбор не завершён, ссылку строить не из чего.
var ErrIncompleteSelection = errors.New("selection is not complete")

// Params параметры ссылки бронирования.
type Params struct {
	BaseURL  string
	Guests   int
	Currency string
	UnitID   string
}

// URL строит ссылку бронирования с датами и параметрами поиска.
func URL(sel models.Selection, p Params) (string, error) {
	if !sel.IsComplete() {
		return "", ErrIncompleteSelection
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("checkin", dates.FormatKey(*sel.Start))
	q.Set("checkout", dates.FormatKey(*sel.End))
	if p.Guests > 0 {
		q.Set("guests", strconv.Itoa(p.Guests))
	}
	if p.Currency != "" {
		q.Set("currency", p.Currency)
	}
	if p.UnitID != "" {
		q.Set("unit", p.UnitID)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
