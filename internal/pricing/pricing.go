// Package pricing содержит чистый расчёт стоимости выбранного диапазона:
// количество ночей, поночную разбивку и итог по выбранной стратегии.
package pricing

import (
	"time"

	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
)

// Config политика ценообразования.
// Strategy "fixed" — фиксированная цена за ночь из конфигурации;
// "api" — цены фида с откатом на PricePerNight для ночей без цены.
type Config struct {
	Strategy      models.PriceStrategy
	PricePerNight float64
}

// Quote считает PricingResult для выбора по карте доступности.
// Неполный выбор даёт нулевой результат. Функция чистая: вызывается
// заново при каждом изменении выбора и ничего не сохраняет.
func Quote(sel models.Selection, avail models.AvailabilityMap, cfg Config) models.PricingResult {
	if !sel.IsComplete() {
		return models.PricingResult{Strategy: models.StrategyFixed, Breakdown: []models.PriceBreakdownEntry{}}
	}

	nights := dates.Nights(*sel.Start, *sel.End)
	result := models.PricingResult{
		Nights:    len(nights),
		Breakdown: make([]models.PriceBreakdownEntry, 0, len(nights)),
	}

	if cfg.Strategy != models.StrategyAPI {
		for _, night := range nights {
			result.Breakdown = append(result.Breakdown, models.PriceBreakdownEntry{
				Date:   night,
				Price:  cfg.PricePerNight,
				Source: models.SourceFixed,
			})
		}
		result.TotalPrice = float64(len(nights)) * cfg.PricePerNight
		result.Strategy = models.StrategyFixed
		return result
	}

	for _, night := range nights {
		entry := models.PriceBreakdownEntry{Date: night, Price: cfg.PricePerNight, Source: models.SourceFallback}
		if rec, ok := avail[dates.FormatKey(night)]; ok && rec.Price > 0 {
			entry.Price = rec.Price
			entry.Source = models.SourceAPI
			result.HasAPIPrices = true
		}
		result.Breakdown = append(result.Breakdown, entry)
		result.TotalPrice += entry.Price
	}

	if result.HasAPIPrices {
		result.Strategy = models.StrategyAPI
	} else {
		result.Strategy = models.StrategyFallback
	}
	return result
}

// Group сгруппированная строка разбивки для отображения: подряд идущие
// ночи с одинаковой ценой и источником схлопнуты в одну запись.
type Group struct {
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Nights    int                `json:"nights"`
	Price     float64            `json:"price"`
	Total     float64            `json:"total"`
	Source    models.PriceSource `json:"source"`
}

// GroupConsecutive схлопывает последовательные ночи с одинаковой парой
// (цена, источник). Чисто презентационное преобразование поночной
// разбивки, данные под ним не меняются; для фиксированной стратегии
// всегда получается одна агрегатная строка.
func GroupConsecutive(breakdown []models.PriceBreakdownEntry) []Group {
	if len(breakdown) == 0 {
		return nil
	}

	var groups []Group
	cur := -1
	for _, item := range breakdown {
		if cur < 0 || groups[cur].Price != item.Price || groups[cur].Source != item.Source {
			groups = append(groups, Group{
				StartDate: item.Date,
				EndDate:   item.Date,
				Nights:    1,
				Price:     item.Price,
				Total:     item.Price,
				Source:    item.Source,
			})
			cur++
			continue
		}
		groups[cur].EndDate = item.Date
		groups[cur].Nights++
		groups[cur].Total += item.Price
	}
	return groups
}
