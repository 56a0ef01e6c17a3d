package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/jwt"
)

type ValidatorMock struct {
	mock.Mock
}

func (m *ValidatorMock) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	validatorMock := new(ValidatorMock)
	logger := newNoopLogger()

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		userUID := r.Context().Value(middlewarectx.UserUID)
		email := r.Context().Value(middlewarectx.Email)
		role := r.Context().Value(middlewarectx.Role)
		assert.Equal(t, "user-1", userUID)
		assert.Equal(t, "user@example.com", email)
		assert.Equal(t, "user", role)
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.JWTMiddleware(validatorMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockClaims:     nil,
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			mockClaims: &jwt.CustomClaims{
				UserUID: "user-1",
				Email:   "user@example.com",
				Role:    "user",
			},
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			validatorMock.ExpectedCalls = nil
			validatorMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				validatorMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			validatorMock.AssertExpectations(t)
		})
	}
}

func TestRequireRole(t *testing.T) {
	logger := newNoopLogger()

	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	mw := middlewarectx.RequireRole("admin", logger)(nextHandler)

	tests := []struct {
		name           string
		role           any
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "admin allowed", role: "admin", wantStatusCode: http.StatusOK, wantCalled: true},
		{name: "user denied", role: "user", wantStatusCode: http.StatusForbidden, wantCalled: false},
		{name: "role missing", role: nil, wantStatusCode: http.StatusForbidden, wantCalled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.role != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.Role, tt.role)
				req = req.WithContext(ctx)
			}

			rec := httptest.NewRecorder()

			mw.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}
