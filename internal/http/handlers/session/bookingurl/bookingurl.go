// Package bookingurl реализует HTTP-обработчик выдачи ссылки на бронирование.
package bookingurl

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/betterhotel/booking-calendar/internal/booking"
	"github.com/betterhotel/booking-calendar/internal/http/response"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// Handler обрабатывает запросы ссылки перехода на бронирование.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики построения ссылки.
type Service interface {
	BookingURL(ctx context.Context, id string) (string, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Ссылка на бронирование
// @Description Строит ссылку перехода с выбранными датами. Для незавершённого выбора возвращает 409.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response.OKResponse "Ссылка на бронирование"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 409 {object} response.ErrorResponse "Выбор не завершён"
// @Router /sessions/{id}/booking-url [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.bookingurl"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	url, err := h.service.BookingURL(r.Context(), id)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if errors.Is(err, booking.ErrIncompleteSelection) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("selection is not complete"))
		return
	}
	if err != nil {
		log.Error("failed to build booking url", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build booking url"))
		return
	}

	log.Info("built booking url", slog.String("session_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"booking_url": url,
	}))
}
