package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/streadway/amqp"

	"github.com/betterhotel/booking-calendar/internal/cache"
	"github.com/betterhotel/booking-calendar/internal/http/response"
)

type Handler struct {
	log    *slog.Logger
	cache  *cache.Cache
	rabbit *amqp.Connection
}

func New(log *slog.Logger, cache *cache.Cache, rabbit *amqp.Connection) *Handler {
	return &Handler{
		log:    log,
		cache:  cache,
		rabbit: rabbit,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	components := map[string]string{
		"cache":  "ok",
		"events": "ok",
	}
	if h.cache != nil {
		if err := h.cache.Db.Ping(r.Context()).Err(); err != nil {
			components["cache"] = "unavailable"
		}
	}
	if h.rabbit == nil || h.rabbit.IsClosed() {
		components["events"] = "disabled"
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status":     "ok",
		"components": components,
	}))
}
