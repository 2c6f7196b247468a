// Package bookingcalendar предоставляет маршруты и жизненный цикл
// HTTP-приложения календаря бронирования.
package bookingcalendar

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/betterhotel/booking-calendar/internal/cache"
	availabilityrefresh "github.com/betterhotel/booking-calendar/internal/http/handlers/availability/refresh"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/health"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/bookingurl"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/clear"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/click"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/create"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/hover"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/navigate"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/quote"
	"github.com/betterhotel/booking-calendar/internal/http/handlers/session/state"
	"github.com/betterhotel/booking-calendar/internal/http/middlewarectx"
	calendarservice "github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, calendarService *calendarservice.Service, cacheRedis *cache.Cache, rabbit *amqp.Connection) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	hoverHandler := hover.New(logger, calendarService)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(50), 100))

		r.Post("/sessions", create.New(logger, calendarService).ServeHTTP)
		r.Get("/sessions/{id}", state.New(logger, calendarService).ServeHTTP)
		r.Post("/sessions/{id}/click", click.New(logger, calendarService).ServeHTTP)
		r.Post("/sessions/{id}/hover", hoverHandler.ServeHTTP)
		r.Delete("/sessions/{id}/hover", hoverHandler.Leave)
		r.Delete("/sessions/{id}/selection", clear.New(logger, calendarService).ServeHTTP)
		r.Post("/sessions/{id}/navigate", navigate.New(logger, calendarService).ServeHTTP)
		r.Get("/sessions/{id}/quote", quote.New(logger, calendarService).ServeHTTP)
		r.Get("/sessions/{id}/booking-url", bookingurl.New(logger, calendarService).ServeHTTP)
		r.Post("/availability/refresh", availabilityrefresh.New(logger, calendarService).ServeHTTP)

		r.Get("/health", health.New(logger, cacheRedis, rabbit).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
