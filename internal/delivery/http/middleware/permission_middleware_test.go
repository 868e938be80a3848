package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdlelah2024/abdlelah2024-shefaa-clinic-app/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermission(t *testing.T) {
	handler := RequirePermission(entity.PermissionViewFinancials)(okHandler())

	tests := []struct {
		name    string
		session *entity.Session
		want    int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"missing permission", &entity.Session{Role: entity.RoleAdmin, Permissions: entity.Permissions{entity.PermissionViewQueue}}, http.StatusForbidden},
		{"granted", &entity.Session{Role: entity.RoleDoctor, Permissions: entity.Permissions{entity.PermissionViewFinancials}}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/financials", nil)
			if tt.session != nil {
				req = req.WithContext(WithSession(req.Context(), tt.session))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTimeout(t *testing.T) {
	var hasDeadline bool
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	Timeout(time.Second)(probe).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)

	upgrade := httptest.NewRequest(http.MethodGet, "/api/v1/queue/live", nil)
	upgrade.Header.Set("Upgrade", "WebSocket")
	Timeout(time.Second)(probe).ServeHTTP(httptest.NewRecorder(), upgrade)
	assert.False(t, hasDeadline)

	Timeout(0)(probe).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, hasDeadline)
}

func TestPublicRateLimit(t *testing.T) {
	handler := PublicRateLimit(2)(okHandler())

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/bookings", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/v1/public/bookings", nil)
	other.RemoteAddr = "203.0.113.8:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	t.Run("allow all", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/public/doctors", nil)
		req.Header.Set("Origin", "https://anywhere.test")

		NewCORSMiddleware(nil).Handle(okHandler()).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("listed origin", func(t *testing.T) {
		cors := NewCORSMiddleware([]string{"https://clinic.test/", " https://book.clinic.test"})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/public/bookings", nil)
		req.Header.Set("Origin", "https://book.clinic.test")
		cors.Handle(okHandler()).ServeHTTP(rec, req)
		assert.Equal(t, "https://book.clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/api/v1/public/doctors", nil)
		req.Header.Set("Origin", "https://evil.test")
		cors.Handle(okHandler()).ServeHTTP(rec, req)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
