// Package state реализует HTTP-обработчик чтения состояния сессии календаря.
package state

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
	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// Handler обрабатывает запросы на получение состояния сессии по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения состояния.
type Service interface {
	State(ctx context.Context, id string) (models.StateView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние сессии
// @Description Возвращает фазу выбора, выбранные даты, расчёт стоимости и флаги отрисовки дней видимого окна.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response.OKResponse "Состояние сессии"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /sessions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.state"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	view, err := h.service.State(r.Context(), id)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to read session state", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read session state"))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
