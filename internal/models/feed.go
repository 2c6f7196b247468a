package models

// FeedDay используется для приёма одной записи фида доступности из JSON,
// прежде чем конвертировать её в DayRecord.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную;
// записи, не прошедшие валидацию, пропускаются при ингесте.
type FeedDay struct {
	Date           string  `json:"date" validate:"required"`  // Дата в формате 2006-01-02
	Availability   bool    `json:"availability"`              // Доступен ли день
	CloseToArrival bool    `json:"close_to_arrival"`          // Запрещён ли заезд
	Price          float64 `json:"price" validate:"gte=0"`    // Цена за ночь (>=0)
	MinStay        int     `json:"min_stay" validate:"gte=0"` // Минимум ночей (0 трактуется как 1)
}

// Record конвертирует запись фида в доменный DayRecord.
func (f FeedDay) Record() DayRecord {
	minStay := f.MinStay
	if minStay < 1 {
		minStay = 1
	}
	return DayRecord{
		Available:      f.Availability,
		CloseToArrival: f.CloseToArrival,
		Price:          f.Price,
		MinStay:        minStay,
	}
}
