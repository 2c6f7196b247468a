package models

// SelectionView выбранные даты в виде ISO-ключей для хост-приложения.
type SelectionView struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// DayView готовые флаги отображения одного дня видимого окна.
// Слой отрисовки на хост-странице не содержит бизнес-логики:
// все решения о кликабельности и подсветке приняты здесь.
type DayView struct {
	Date              string  `json:"date"`
	HasData           bool    `json:"has_data"`
	Available         bool    `json:"available"`
	CloseToArrival    bool    `json:"close_to_arrival"`
	Price             float64 `json:"price"`
	MinStay           int     `json:"min_stay"`
	Past              bool    `json:"past"`
	Today             bool    `json:"today"`
	Selectable        bool    `json:"selectable"`
	CheckoutOnly      bool    `json:"checkout_only,omitempty"`
	OutOfRange        bool    `json:"out_of_range,omitempty"`
	OutOfRangeCheckin bool    `json:"out_of_range_checkin,omitempty"`
	SelectedStart     bool    `json:"selected_start,omitempty"`
	SelectedEnd       bool    `json:"selected_end,omitempty"`
	InRange           bool    `json:"in_range,omitempty"`
	InHoverRange      bool    `json:"in_hover_range,omitempty"`
}

// StateView наблюдаемое состояние сессии, отдаваемое слою отрисовки:
// фаза, выбор, расчёт стоимости, последняя ошибка и флаги дней окна.
type StateView struct {
	SessionID string         `json:"session_id"`
	Phase     SelectionPhase `json:"phase"`
	Selection SelectionView  `json:"selection"`
	Month     string         `json:"month"`
	HoverEnd  string         `json:"hover_end,omitempty"`
	ErrorKind ErrorKind      `json:"error_kind,omitempty"`
	Pricing   PricingResult  `json:"pricing"`
	Days      []DayView      `json:"days"`
}
