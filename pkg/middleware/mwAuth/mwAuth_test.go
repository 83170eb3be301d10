package mwAuth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-service/internal/models"
	"reservation-service/internal/token"
	"reservation-service/pkg/middleware/mwAuth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func issueToken(t *testing.T, m *token.Manager, role models.Role) string {
	t.Helper()

	raw, err := m.Issue(&models.User{UserID: "user-1", Username: "alice", Role: role})
	require.NoError(t, err)
	return raw
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	mw := mwAuth.New(discardLogger(), tokens)

	var gotClaims *token.Claims
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = mwAuth.Claims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, models.RoleStudent))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "user-1", gotClaims.UserID())
		assert.Equal(t, "student", gotClaims.Role)
	})
}

func TestRequireRole(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	mw := mwAuth.New(discardLogger(), tokens)
	adminOnly := mwAuth.RequireRole("admin")

	handler := mw(adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	cases := []struct {
		role models.Role
		want int
	}{
		{models.RoleStudent, http.StatusForbidden},
		{models.RoleTeacher, http.StatusForbidden},
		{models.RoleAdmin, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, tc.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	adminOnly := mwAuth.RequireRole("admin")
	handler := adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
