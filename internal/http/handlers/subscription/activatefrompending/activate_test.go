package activatefrompending

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/payment"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ActivateFromPending(ctx context.Context, userUID, email, displayName string) (*payment.ActivationOutcome, error) {
	args := m.Called(ctx, userUID, email, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ActivationOutcome), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestActivateFromPendingHandler_ServeHTTP(t *testing.T) {
	endDate := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		userUID        string
		email          string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "success - subscription activated",
			userUID: "user123",
			email:   "user@example.com",
			setupMocks: func(s *MockService) {
				s.On("ActivateFromPending", mock.Anything, "user123", "user@example.com", "").
					Return(&payment.ActivationOutcome{
						Success:          true,
						PaymentID:        "pay-1",
						SubscriptionType: "monthly",
						EndDate:          endDate,
					}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"success":true,"paymentId":"pay-1","subscriptionType":"monthly","endDate":"2025-08-01T12:00:00Z"}}`,
		},
		{
			name:           "missing user UID",
			userUID:        "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:    "no pending payment",
			userUID: "user123",
			email:   "user@example.com",
			setupMocks: func(s *MockService) {
				s.On("ActivateFromPending", mock.Anything, "user123", "user@example.com", "").
					Return(nil, payment.ErrNoPendingPayment).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"no pending payment found"}`,
		},
		{
			name:    "payment not succeeded after polling",
			userUID: "user123",
			email:   "user@example.com",
			setupMocks: func(s *MockService) {
				s.On("ActivateFromPending", mock.Anything, "user123", "user@example.com", "").
					Return(nil, fmt.Errorf("status=pending: %w", payment.ErrPaymentNotSucceeded)).Once()
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"status=pending: payment has not succeeded"}`,
		},
		{
			name:    "payment canceled",
			userUID: "user123",
			email:   "user@example.com",
			setupMocks: func(s *MockService) {
				s.On("ActivateFromPending", mock.Anything, "user123", "user@example.com", "").
					Return(nil, fmt.Errorf("status=canceled, paid=false: %w", payment.ErrPaymentCanceled)).Once()
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"status=canceled, paid=false: payment canceled by gateway"}`,
		},
		{
			name:    "internal error",
			userUID: "user123",
			email:   "user@example.com",
			setupMocks: func(s *MockService) {
				s.On("ActivateFromPending", mock.Anything, "user123", "user@example.com", "").
					Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not activate subscription"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			handler := New(newNoopLogger(), service)

			tt.setupMocks(service)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/subscription/activate-from-pending", nil)
			ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
			ctx = context.WithValue(ctx, middlewarectx.Email, tt.email)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())

			service.AssertExpectations(t)
		})
	}
}
