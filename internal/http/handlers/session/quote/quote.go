// Package quote реализует HTTP-обработчик расчёта стоимости выбора.
package quote

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/betterhotel/booking-calendar/internal/http/response"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// Handler обрабатывает запросы расчёта стоимости.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики расчёта стоимости.
type Service interface {
	Quote(ctx context.Context, id string) (calendar.Quote, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Расчёт стоимости
// @Description Возвращает поночную разбивку, сгруппированные строки и итог по текущему выбору.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response.OKResponse "Расчёт стоимости"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /sessions/{id}/quote [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.quote"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	res, err := h.service.Quote(r.Context(), id)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to build quote", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build quote"))
		return
	}

	render.JSON(w, r, response.OKWithData(res))
}
