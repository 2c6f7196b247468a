// Package refresh реализует HTTP-обработчик принудительного обновления
// карты доступности из фида.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/betterhotel/booking-calendar/internal/http/response"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// Handler обрабатывает запросы принудительного обновления доступности.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления доступности.
type Service interface {
	Refresh(ctx context.Context) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить доступность
// @Description Инвалидирует кеш и перечитывает фид для окон всех живых сессий. Недоступный фид оставляет прежние карты.
// @Tags Availability
// @Produce json
// @Success 200 {object} response.OKResponse "Доступность обновлена"
// @Failure 503 {object} response.ErrorResponse "Фид недоступен"
// @Router /availability/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.availability.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	err := h.service.Refresh(r.Context())
	if errors.Is(err, calendar.ErrFeedUnavailable) {
		log.Error("availability feed unavailable", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("availability feed unavailable"))
		return
	}
	if err != nil {
		log.Error("failed to refresh availability", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not refresh availability"))
		return
	}

	log.Info("refreshed availability")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"refreshed": true,
	}))
}
