// Package events публикует уведомления хост-приложению через RabbitMQ.
// Каждое значимое действие пользователя в календаре превращается в
// событие с собственным routing key, хост подписывается на нужные.
package events

import "time"

// Routing keys событий календаря.
const (
	RouteSelectionCommitted = "selection.committed"
	RouteSelectionCleared   = "selection.cleared"
	RouteSelectionRejected  = "selection.rejected"
	RouteCalendarNavigated  = "calendar.navigated"
)

// Event полезная нагрузка уведомления. Даты передаются строками
// в формате 2006-01-02, незаполненные поля опускаются.
type Event struct {
	SessionID  string    `json:"session_id"`
	OccurredAt time.Time `json:"occurred_at"`
	CheckIn    string    `json:"check_in,omitempty"`
	CheckOut   string    `json:"check_out,omitempty"`
	Nights     int       `json:"nights,omitempty"`
	TotalPrice float64   `json:"total_price,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Month      string    `json:"month,omitempty"`
}
