package state

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/betterhotel/booking-calendar/internal/models"
	"github.com/betterhotel/booking-calendar/internal/services/calendar"
)

// MockService реализует интерфейс state.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) State(ctx context.Context, id string) (models.StateView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.StateView), args.Error(1)
}

func TestStateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		sessionID      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "успешное чтение состояния",
			sessionID: "abc",
			setupMock: func(m *MockService) {
				view := models.StateView{
					SessionID: "abc",
					Phase:     models.PhaseComplete,
					Selection: models.SelectionView{Start: "2030-06-10", End: "2030-06-13"},
					Month:     "2030-06-01",
					Days: []models.DayView{
						{Date: "2030-06-10", HasData: true, Available: true, Selectable: true, SelectedStart: true},
					},
				}
				m.On("State", mock.Anything, "abc").Return(view, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"phase":"complete"`,
		},
		{
			name:      "сессия не найдена",
			sessionID: "ghost",
			setupMock: func(m *MockService) {
				m.On("State", mock.Anything, "ghost").
					Return(models.StateView{}, calendar.ErrSessionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"session not found"}`,
		},
		{
			name:      "ошибка сервиса",
			sessionID: "abc",
			setupMock: func(m *MockService) {
				m.On("State", mock.Anything, "abc").
					Return(models.StateView{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not read session state"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/sessions/"+tt.sessionID, nil)
			// Устанавливаем URL params с помощью роутера chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.sessionID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
