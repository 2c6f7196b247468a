// Package feed клиент внешнего фида доступности и цен.
// Фид отдаёт JSON-массив дневных записей; записи с невалидными полями
// пропускаются, чтобы один битый день не ронял весь календарь.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator"

	"github.com/betterhotel/booking-calendar/internal/config"
	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/models"
)

type Client struct {
	apiBase    string
	clientID   string
	unitID     string
	persons    int
	httpClient *http.Client
	validate   *validator.Validate
}

// NewClient создаёт клиент фида по настройкам из конфига.
func NewClient(cfg config.FeedClient) *Client {
	return &Client{
		apiBase:    cfg.APIBase,
		clientID:   cfg.ClientID,
		unitID:     cfg.UnitID,
		persons:    cfg.Persons,
		httpClient: &http.Client{Timeout: cfg.TimeoutFeed},
		validate:   validator.New(),
	}
}

// LoadAvailability запрашивает карту доступности на полуинтервал дат.
func (c *Client) LoadAvailability(ctx context.Context, from, to time.Time) (models.AvailabilityMap, error) {
	const op = "feed.LoadAvailability"

	query := url.Values{}
	query.Set("clientId", c.clientID)
	query.Set("from", dates.FormatKey(from))
	query.Set("to", dates.FormatKey(to))
	query.Set("persons", strconv.Itoa(c.persons))
	if c.unitID != "" {
		query.Set("unitId", c.unitID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var days []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&days); err != nil {
		// Фид может вернуть не массив, например объект с ошибкой.
		// Это эквивалент пустого ответа: календарь останется разрешительным.
		return models.AvailabilityMap{}, nil
	}

	return c.parseDays(days), nil
}

// ParseAvailability разбирает сырое тело фида в карту доступности.
func (c *Client) ParseAvailability(data []byte) (models.AvailabilityMap, error) {
	var days []json.RawMessage
	if err := json.Unmarshal(data, &days); err != nil {
		return models.AvailabilityMap{}, nil
	}
	return c.parseDays(days), nil
}

func (c *Client) parseDays(days []json.RawMessage) models.AvailabilityMap {
	avail := models.AvailabilityMap{}
	for _, raw := range days {
		var day models.FeedDay
		if err := json.Unmarshal(raw, &day); err != nil {
			continue
		}
		if err := c.validate.Struct(day); err != nil {
			continue
		}
		if _, err := dates.ParseKey(day.Date); err != nil {
			continue
		}
		avail[day.Date] = day.Record()
	}
	return avail
}
