package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

type authServiceStub struct {
	loginFn func(ctx context.Context, username, password string) (*usecase.LoginResult, error)
}

func (s *authServiceStub) Login(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

type loginCounter struct {
	ok, failed int
}

func (c *loginCounter) RecordLogin(success bool) {
	if success {
		c.ok++
	} else {
		c.failed++
	}
}

func TestAuthHandler_Login(t *testing.T) {
	counter := &loginCounter{}
	h := NewAuthHandler(&authServiceStub{
		loginFn: func(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
			if username == "admin" && password == "s3cret" {
				return &usecase.LoginResult{
					Token:     "tok",
					ExpiresAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
					Operator:  testAdmin,
				}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}, counter)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"s3cret"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"admin","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, 1, counter.ok)
	assert.Equal(t, 1, counter.failed)
}

func TestAuthHandler_Login_IssuerFailure(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{
		loginFn: func(ctx context.Context, username, password string) (*usecase.LoginResult, error) {
			return nil, errors.New("signing failed")
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"a","password":"b"}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{}, nil)

	rec := httptest.NewRecorder()
	h.Me(rec, withRequest(httptest.NewRequest(http.MethodGet, "/auth/me", nil), testViewer, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"viewer"`)

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	ok := PingFunc(func(ctx context.Context) error { return nil })
	down := PingFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		postgres   Pinger
		redis      Pinger
		wantStatus int
		wantBody   string
	}{
		{"all healthy", ok, ok, http.StatusOK, `{"status":"ready","checks":{"postgres":"ok","redis":"ok"}}`},
		{"postgres down", down, ok, http.StatusServiceUnavailable, `{"status":"unavailable","checks":{"postgres":"connection refused","redis":"ok"}}`},
		{"redis down", ok, down, http.StatusServiceUnavailable, `{"status":"unavailable","checks":{"postgres":"ok","redis":"connection refused"}}`},
		{"redis not configured", ok, nil, http.StatusOK, `{"status":"ready","checks":{"postgres":"ok"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.postgres, tt.redis)

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}

	rec := httptest.NewRecorder()
	NewHealthHandler(down, down).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
