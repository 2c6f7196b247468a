// Package hover реализует HTTP-обработчики предварительного диапазона:
// наведение на дату и уход курсора с календаря.
package hover

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/betterhotel/booking-calendar/internal/http/response"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// Handler обрабатывает запросы предварительного диапазона.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики наведения.
type Service interface {
	Hover(ctx context.Context, id, date string) (models.StateView, error)
	HoverLeave(ctx context.Context, id string) (models.StateView, error)
}

// Request тело запроса наведения.
type Request struct {
	Date string `json:"date" validate:"required"` // Дата в формате 2006-01-02
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Наведение на дату
// @Description Обновляет предварительный конец диапазона; дата за пределом достижимого выезда прижимается к нему.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body Request true "Дата под курсором"
// @Success 200 {object} response.OKResponse "Состояние после наведения"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело или дата"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /sessions/{id}/hover [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.hover"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	view, err := h.service.Hover(r.Context(), id, req.Date)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to process hover", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid date"))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}

// Leave godoc
// @Summary Уход курсора
// @Description Сбрасывает предварительный конец диапазона.
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} response.OKResponse "Состояние после сброса"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Router /sessions/{id}/hover [delete]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.hover.leave"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	view, err := h.service.HoverLeave(r.Context(), id)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to reset hover", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not reset hover"))
		return
	}

	render.JSON(w, r, response.OKWithData(view))
}
