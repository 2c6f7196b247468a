// Package clear реализует HTTP-обработчик сброса выбора дат.
package clear

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

// Handler обрабатывает запросы на сброс выбора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сброса выбора.
type Service interface {
	Clear(ctx context.Context, id string) (models.StateView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сбросить выбор
// @Description Сбрасывает выбранные даты, ошибку и расчёт стоимости сессии.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response.OKResponse "Состояние после сброса"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /sessions/{id}/selection [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.clear"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	view, err := h.service.Clear(r.Context(), id)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to clear selection", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not clear selection"))
		return
	}

	log.Info("cleared selection", slog.String("session_id", id))
	render.JSON(w, r, response.OKWithData(view))
}
