// Package create реализует HTTP-обработчик создания сессии календаря.
//
// Handler создаёт сессию с машиной выбора, засеянной доступностью текущего
// двухмесячного окна, и возвращает её наблюдаемое состояние в JSON-формате.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/betterhotel/booking-calendar/internal/http/response"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/models"
)

// Handler обрабатывает запросы на создание сессии календаря.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики сессий календаря
}

// Service описывает интерфейс бизнес-логики создания сессии.
type Service interface {
	CreateSession(ctx context.Context) (models.StateView, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать сессию календаря
// @Description Создаёт новую сессию выбора дат и возвращает её состояние с флагами отрисовки.
// @Tags Sessions
// @Produce json
// @Success 200 {object} response.OKResponse "Сессия создана"
// @Failure 500 {object} response.ErrorResponse "Ошибка создания сессии"
// @Router /sessions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	view, err := h.service.CreateSession(r.Context())
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create session"))
		return
	}

	log.Info("created calendar session", slog.String("session_id", view.SessionID))
	render.JSON(w, r, response.OKWithData(view))
}
