// Package calendar содержит бизнес-логику сессий календаря бронирования:
// загрузку карты доступности с кешированием, проводку действий
// пользователя через машину выбора и уведомления хост-приложения.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/betterhotel/booking-calendar/internal/booking"
	"github.com/betterhotel/booking-calendar/internal/config"
	"github.com/betterhotel/booking-calendar/internal/events"
	"github.com/betterhotel/booking-calendar/internal/lib/dates"
	"github.com/betterhotel/booking-calendar/internal/lib/sl"
	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/pricing"
	"github.com/betterhotel/booking-calendar/internal/selection"
	"github.com/betterhotel/booking-calendar/internal/validation"
)

// Feed определяет загрузку карты доступности из внешнего фида.
type Feed interface {
	// LoadAvailability возвращает карту доступности на интервал дат.
	LoadAvailability(ctx context.Context, from, to time.Time) (models.AvailabilityMap, error)
}

// Cache описывает методы для кэширования снимков доступности.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Notifier публикует события календаря хост-приложению.
type Notifier interface {
	Publish(routingKey string, ev events.Event) error
}

var (
	// ErrSessionNotFound сессия не существует или вытеснена по простою.
	ErrSessionNotFound = errors.New("session not found")
	// ErrFeedUnavailable фид не ответил, свежей карты нет.
	ErrFeedUnavailable = errors.New("availability feed unavailable")
)

type session struct {
	id       string
	mu       sync.Mutex
	machine  *selection.Machine
	lastSeen time.Time
}

// Service реализует операции сессий календаря. Машина выбора остаётся
// единственным писателем своего состояния, сервис сериализует доступ
// к ней мьютексом сессии.
type Service struct {
	feed     Feed
	cache    Cache
	notifier Notifier
	log      *slog.Logger

	rules      validation.Rules
	pricingCfg pricing.Config
	clientID   string
	unitID     string
	persons    int
	currency   string
	bookingURL string
	cacheTTL   time.Duration
	idleTTL    time.Duration

	mu       sync.Mutex
	sessions map[string]*session

	now func() time.Time
}

// New создает новый экземпляр Service.
func New(feed Feed, cache Cache, notifier Notifier, log *slog.Logger, cfg *config.Config) *Service {
	return &Service{
		feed:     feed,
		cache:    cache,
		notifier: notifier,
		log:      log,
		rules: validation.Rules{
			MinNights: cfg.MinNights,
			MaxNights: cfg.MaxNights,
		},
		pricingCfg: pricing.Config{
			Strategy:      models.PriceStrategy(cfg.PricingStrategy),
			PricePerNight: cfg.PricePerNight,
		},
		clientID:   cfg.FeedClient.ClientID,
		unitID:     cfg.FeedClient.UnitID,
		persons:    cfg.FeedClient.Persons,
		currency:   cfg.Currency,
		bookingURL: cfg.BookingURL,
		cacheTTL:   cfg.CacheTTL,
		idleTTL:    cfg.SessionIdleTTL,
		sessions:   make(map[string]*session),
		now:        time.Now,
	}
}

// CreateSession создает сессию с машиной, засеянной доступностью
// текущего двухмесячного окна. Недоступный фид не мешает созданию:
// календарь остаётся разрешительным до первой удачной загрузки.
func (s *Service) CreateSession(ctx context.Context) (models.StateView, error) {
	machine := selection.New(s.rules, s.pricingCfg)

	month := machine.Snapshot().Month
	avail, err := s.loadWindow(ctx, month)
	if err != nil {
		s.log.Warn("availability load failed, starting permissive", sl.Err(err))
	} else {
		machine.SetAvailability(avail)
	}

	sess := &session{
		id:       uuid.NewString(),
		machine:  machine,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.Info("created calendar session", slog.String("session_id", sess.id))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateView(sess), nil
}

// State возвращает наблюдаемое состояние сессии с флагами отрисовки.
func (s *Service) State(ctx context.Context, id string) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.stateView(sess), nil
}

// Click проводит клик по дате через машину выбора.
// Отклонённый клик — не ошибка транспорта: состояние с видом нарушения
// возвращается как обычный результат.
func (s *Service) Click(ctx context.Context, id, date string) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	day, err := dates.ParseKey(date)
	if err != nil {
		return models.StateView{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	res := sess.machine.Click(day)
	snap := sess.machine.Snapshot()

	switch {
	case !res.Valid:
		s.publish(events.RouteSelectionRejected, events.Event{
			SessionID:  sess.id,
			OccurredAt: s.now(),
			ErrorKind:  string(res.Kind),
		})
	case snap.Selection.IsComplete():
		s.publish(events.RouteSelectionCommitted, events.Event{
			SessionID:  sess.id,
			OccurredAt: s.now(),
			CheckIn:    dates.FormatKey(*snap.Selection.Start),
			CheckOut:   dates.FormatKey(*snap.Selection.End),
			Nights:     snap.Pricing.Nights,
			TotalPrice: snap.Pricing.TotalPrice,
			Currency:   s.currency,
		})
	}

	return s.stateView(sess), nil
}

// Hover обновляет предварительный конец диапазона.
func (s *Service) Hover(ctx context.Context, id, date string) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	day, err := dates.ParseKey(date)
	if err != nil {
		return models.StateView{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.machine.Hover(day)
	return s.stateView(sess), nil
}

// HoverLeave сбрасывает предварительный конец диапазона.
func (s *Service) HoverLeave(ctx context.Context, id string) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.machine.HoverLeave()
	return s.stateView(sess), nil
}

// Clear сбрасывает выбор и уведомляет хост-приложение.
func (s *Service) Clear(ctx context.Context, id string) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.machine.Clear()
	s.publish(events.RouteSelectionCleared, events.Event{
		SessionID:  sess.id,
		OccurredAt: s.now(),
	})

	return s.stateView(sess), nil
}

// Navigate сдвигает видимый месяц и перезагружает доступность нового
// окна. Недоступный фид оставляет прежнюю карту нетронутой.
func (s *Service) Navigate(ctx context.Context, id string, delta int) (models.StateView, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return models.StateView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	month := sess.machine.Navigate(delta)

	avail, err := s.loadWindow(ctx, month)
	if err != nil {
		s.log.Warn("availability load failed, keeping previous map",
			slog.String("month", dates.FormatKey(month)), sl.Err(err))
	} else {
		sess.machine.SetAvailability(avail)
	}

	s.publish(events.RouteCalendarNavigated, events.Event{
		SessionID:  sess.id,
		OccurredAt: s.now(),
		Month:      dates.FormatKey(month),
	})

	return s.stateView(sess), nil
}

// Quote возвращает расчёт стоимости с группировкой для отображения.
type Quote struct {
	Pricing  models.PricingResult `json:"pricing"`
	Groups   []pricing.Group      `json:"groups"`
	Currency string               `json:"currency"`
}

// Quote отдаёт текущий расчёт стоимости сессии.
func (s *Service) Quote(ctx context.Context, id string) (Quote, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return Quote{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	snap := sess.machine.Snapshot()
	return Quote{
		Pricing:  snap.Pricing,
		Groups:   pricing.GroupConsecutive(snap.Pricing.Breakdown),
		Currency: s.currency,
	}, nil
}

// BookingURL строит ссылку перехода на бронирование. Для незавершённого
// выбора возвращается booking.ErrIncompleteSelection.
func (s *Service) BookingURL(ctx context.Context, id string) (string, error) {
	sess, err := s.getSession(id)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return booking.URL(sess.machine.Snapshot().Selection, booking.Params{
		BaseURL:  s.bookingURL,
		Guests:   s.persons,
		Currency: s.currency,
		UnitID:   s.unitID,
	})
}

// Refresh принудительно перечитывает фид для окон всех живых сессий,
// инвалидируя кеш. Недоступный фид оставляет прежние карты.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	var failed bool
	refreshed := map[string]models.AvailabilityMap{}

	for _, sess := range sessions {
		sess.mu.Lock()
		month := sess.machine.Snapshot().Month
		from, to := dates.MonthWindow(month)
		key := s.cacheKey(from, to)

		avail, ok := refreshed[key]
		if !ok {
			if err := s.cache.Invalidate(ctx, key); err != nil {
				s.log.Warn("failed to invalidate availability cache",
					slog.String("key", key), sl.Err(err))
			}
			var err error
			avail, err = s.loadWindow(ctx, month)
			if err != nil {
				s.log.Warn("availability refresh failed, keeping previous map",
					slog.String("key", key), sl.Err(err))
				failed = true
				sess.mu.Unlock()
				continue
			}
			refreshed[key] = avail
		}

		sess.machine.SetAvailability(avail)
		sess.mu.Unlock()
	}

	if failed {
		return ErrFeedUnavailable
	}
	return nil
}

// StartEviction запускает фоновое вытеснение простаивающих сессий.
// Останавливается по отмене контекста.
func (s *Service) StartEviction(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.evictIdle()
			}
		}
	}()
}

func (s *Service) evictIdle() {
	deadline := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(deadline) {
			delete(s.sessions, id)
			s.log.Info("evicted idle calendar session", slog.String("session_id", id))
		}
	}
}

func (s *Service) getSession(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// loadWindow отдаёт карту доступности двухмесячного окна месяца:
// сперва кеш, при промахе фид с записью снимка в кеш.
func (s *Service) loadWindow(ctx context.Context, month time.Time) (models.AvailabilityMap, error) {
	const op = "calendar.loadWindow"

	from, to := dates.MonthWindow(month)
	key := s.cacheKey(from, to)

	var cached models.AvailabilityMap
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("availability cache read failed", slog.String("key", key), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	avail, err := s.feed.LoadAvailability(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, key, avail, s.cacheTTL); err != nil {
		s.log.Warn("failed to cache availability snapshot", slog.String("key", key), sl.Err(err))
	}

	return avail, nil
}

func (s *Service) cacheKey(from, to time.Time) string {
	return fmt.Sprintf("availability:%s:%s:%s", s.clientID, dates.FormatKey(from), dates.FormatKey(to))
}

func (s *Service) publish(routingKey string, ev events.Event) {
	if err := s.notifier.Publish(routingKey, ev); err != nil {
		s.log.Warn("failed to publish calendar event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}

// stateView собирает наблюдаемое состояние сессии. Вызывается под
// мьютексом сессии.
func (s *Service) stateView(sess *session) models.StateView {
	snap := sess.machine.Snapshot()
	today := dates.Midnight(s.now())

	view := models.StateView{
		SessionID: sess.id,
		Phase:     snap.Selection.Phase(),
		Month:     dates.FormatKey(snap.Month),
		ErrorKind: snap.ErrorKind,
		Pricing:   snap.Pricing,
		Days:      s.buildDays(snap, today),
	}
	if snap.Selection.Start != nil {
		view.Selection.Start = dates.FormatKey(*snap.Selection.Start)
	}
	if snap.Selection.End != nil {
		view.Selection.End = dates.FormatKey(*snap.Selection.End)
	}
	if snap.HoverEnd != nil {
		view.HoverEnd = dates.FormatKey(*snap.HoverEnd)
	}
	return view
}

// buildDays вычисляет флаги отрисовки для каждого дня видимого окна,
// чтобы слою отрисовки не требовалась бизнес-логика.
func (s *Service) buildDays(snap selection.Snapshot, today time.Time) []models.DayView {
	from, to := dates.MonthWindow(snap.Month)
	sel := snap.Selection
	avail := snap.Availability

	awaiting := sel.Phase() == models.PhaseAwaitingCheckout
	var maxEnd time.Time
	if awaiting {
		maxEnd = validation.MaxReachableCheckout(*sel.Start, avail, s.rules.MaxNights)
	}

	days := make([]models.DayView, 0, dates.NightsBetween(from, to)+1)
	for day := from; !day.After(to); day = dates.AddDays(day, 1) {
		rec, ok := avail[dates.FormatKey(day)]

		dv := models.DayView{
			Date:           dates.FormatKey(day),
			HasData:        ok,
			Available:      ok && rec.Available,
			CloseToArrival: rec.CloseToArrival,
			Price:          rec.Price,
			MinStay:        rec.MinStay,
			Past:           day.Before(today),
			Today:          dates.IsSameDay(day, today),
			Selectable:     validation.IsDateSelectable(day, today, sel, avail, s.rules),
		}

		if awaiting {
			start := *sel.Start
			if day.After(maxEnd) {
				dv.OutOfRange = true
				dv.OutOfRangeCheckin = validation.ValidateCheckInDate(day, today, avail).Valid
			} else if day.After(start) {
				checkout := validation.ValidateCheckOutDate(day, start, avail, s.rules)
				checkin := validation.ValidateCheckInDate(day, today, avail)
				dv.CheckoutOnly = checkout.Valid && !checkin.Valid
			}
			if snap.HoverEnd != nil && day.After(start) && !day.After(*snap.HoverEnd) {
				dv.InHoverRange = true
			}
		}

		if sel.Start != nil {
			dv.SelectedStart = dates.IsSameDay(day, *sel.Start)
		}
		if sel.End != nil {
			dv.SelectedEnd = dates.IsSameDay(day, *sel.End)
			if day.After(*sel.Start) && day.Before(*sel.End) {
				dv.InRange = true
			}
		}

		days = append(days, dv)
	}
	return days
}
