// Package navigate реализует HTTP-обработчик листания месяцев календаря.
package navigate

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

// Handler обрабатывает запросы на сдвиг видимого месяца.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики листания.
type Service interface {
	Navigate(ctx context.Context, id string, delta int) (models.StateView, error)
}

// Request тело запроса листания. Нулевой сдвиг смысла не имеет
// и отклоняется валидацией.
type Request struct {
	Delta int `json:"delta" validate:"required"` // Сдвиг в месяцах, например 1 или -1
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
// @Summary Листание месяцев
// @Description Сдвигает видимый месяц и перезагружает карту доступности нового окна.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body Request true "Сдвиг в месяцах"
// @Success 200 {object} response.OKResponse "Состояние после сдвига"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /sessions/{id}/navigate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.navigate"

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

	view, err := h.service.Navigate(r.Context(), id, req.Delta)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to navigate", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not navigate"))
		return
	}

	log.Info("navigated calendar",
		slog.String("session_id", id),
		slog.Int("delta", req.Delta),
		slog.String("month", view.Month))
	render.JSON(w, r, response.OKWithData(view))
}
