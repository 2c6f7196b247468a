package bookingcalendar

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/betterhotel/booking-calendar/internal/cache"
	"github.com/betterhotel/booking-calendar/internal/config"
	"github.com/betterhotel/booking-calendar/internal/events"
	"github.com/betterhotel/booking-calendar/internal/feed"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	calendarservice "github.com/betterhotel/booking-calendar/internal/services/calendar"
)

type App struct {
	server   *http.Server
	logger   *slog.Logger
	cache    *cache.Cache
	rabbit   *amqp.Connection
	calendar *calendarservice.Service
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	feedClient := feed.NewClient(cfg.FeedClient)

	// Брокер необязателен: без адреса события молча отбрасываются.
	var notifier calendarservice.Notifier = events.NopPublisher{}
	var rabbitConn *amqp.Connection
	if cfg.AddressRabbit != "" {
		rabbitConn, err = events.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := events.SetupChannel(rabbitConn, cfg.Exchange)
		if err != nil {
			return nil, err
		}
		notifier = events.NewPublisher(ch, cfg.Exchange)
	} else {
		logger.Info("rabbitmq address is empty, calendar events disabled")
	}

	calendarService := calendarservice.New(feedClient, cacheRedis, notifier, logger, cfg)
	calendarService.StartEviction(ctx, cfg.SessionIdleTTL/2)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, calendarService, cacheRedis, rabbitConn)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		cache:    cacheRedis,
		rabbit:   rabbitConn,
		calendar: calendarService,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.cache.Db.Close(); cerr != nil {
			a.logger.Error("failed to close redis client", sl.Err(cerr))
		}
		if a.rabbit != nil {
			if rerr := a.rabbit.Close(); rerr != nil {
				a.logger.Error("failed to close rabbitmq connection", sl.Err(rerr))
			}
		}
		return err
	}
}
