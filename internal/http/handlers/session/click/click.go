// Package click реализует HTTP-обработчик клика по дате календаря.
//
// Отклонённый бизнес-правилами клик — не ошибка транспорта: обработчик
// возвращает 200 с состоянием, несущим вид нарушения, как и успешный клик.
package click

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

// Handler обрабатывает клики по датам календаря.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики сессий календаря
	validate *validator.Validate // Валидатор для проверки входных данных
}

// Service описывает интерфейс бизнес-логики обработки клика.
type Service interface {
	Click(ctx context.Context, id, date string) (models.StateView, error)
}

// Request тело запроса клика.
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
// @Summary Клик по дате
// @Description Проводит клик через машину выбора: назначает заезд, выезд или перезапускает выбор. Отклонённый клик возвращает 200 с видом нарушения в состоянии.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body Request true "Кликнутая дата"
// @Success 200 {object} response.OKResponse "Состояние после клика"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело или дата"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /sessions/{id}/click [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.click"

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

	view, err := h.service.Click(r.Context(), id, req.Date)
	if errors.Is(err, calendar.ErrSessionNotFound) {
		log.Info("session not found", slog.String("session_id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("session not found"))
		return
	}
	if err != nil {
		log.Error("failed to process click", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid date"))
		return
	}

	log.Info("processed click",
		slog.String("session_id", id),
		slog.String("date", req.Date),
		slog.String("phase", string(view.Phase)))
	render.JSON(w, r, response.OKWithData(view))
}
