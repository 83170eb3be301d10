package create_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-service/api"
	"reservation-service/internal/http-server/handlers/reservations/create"
	"reservation-service/internal/models"
	"reservation-service/internal/service"
	"reservation-service/internal/token"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
)

type creatorFunc func(ctx context.Context, actor service.Actor, req *api.ReservationRequest, idempotencyKey *string) (*api.ReservationResponse, error)

func (f creatorFunc) CreateReservation(ctx context.Context, actor service.Actor, req *api.ReservationRequest, idempotencyKey *string) (*api.ReservationResponse, error) {
	return f(ctx, actor, req, idempotencyKey)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T, creator create.ReservationCreator) (http.Handler, string) {
	t.Helper()

	tokens := token.NewManager("secret", time.Hour)
	raw, err := tokens.Issue(&models.User{UserID: "user-1", Username: "alice", Role: models.RoleStudent})
	require.NoError(t, err)

	handler := mwAuth.New(discardLogger(), tokens)(create.New(discardLogger(), creator))
	return handler, raw
}

func postReservation(t *testing.T, handler http.Handler, bearer string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", &buf)
	req.Header.Set("Authorization", "Bearer "+bearer)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func validRequest() api.ReservationRequest {
	return api.ReservationRequest{
		RoomID:      "room-1",
		FloorNumber: 1,
		Name:        "Alice Johnson",
		Email:       "alice@example.edu",
		Date:        "2025-03-10",
		StartTime:   "10:00",
		EndTime:     "11:00",
		Purpose:     "study group",
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestCreateHandler_Success(t *testing.T) {
	var gotActor service.Actor
	var gotKey *string

	handler, bearer := newServer(t, creatorFunc(func(_ context.Context, actor service.Actor, req *api.ReservationRequest, key *string) (*api.ReservationResponse, error) {
		gotActor = actor
		gotKey = key
		return &api.ReservationResponse{ID: "res-1", RoomID: req.RoomID, Status: "confirmed"}, nil
	}))

	rec := postReservation(t, handler, bearer, validRequest(), map[string]string{"Idempotency-Key": "k-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "user-1", gotActor.UserID)
	assert.Equal(t, "student", gotActor.Role)
	require.NotNil(t, gotKey)
	assert.Equal(t, "k-1", *gotKey)

	var body struct {
		Reservation api.ReservationResponse `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "res-1", body.Reservation.ID)
}

func TestCreateHandler_Errors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"conflict", response.ErrConflict, http.StatusBadRequest, "CONFLICT"},
		{"validation", response.ErrValidation, http.StatusBadRequest, "VALIDATION"},
		{"locked", response.ErrLocked, http.StatusLocked, "LOCKED"},
		{"not found", response.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "REQUEST_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, bearer := newServer(t, creatorFunc(func(context.Context, service.Actor, *api.ReservationRequest, *string) (*api.ReservationResponse, error) {
				return nil, tc.err
			}))

			rec := postReservation(t, handler, bearer, validRequest(), nil)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantBody, errorCode(t, rec))
		})
	}
}

func TestCreateHandler_BadJSON(t *testing.T) {
	handler, bearer := newServer(t, creatorFunc(func(context.Context, service.Actor, *api.ReservationRequest, *string) (*api.ReservationResponse, error) {
		t.Fatal("creator must not be called")
		return nil, nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FAILED_TO_DECODE", errorCode(t, rec))
}

func TestCreateHandler_NoToken(t *testing.T) {
	handler, _ := newServer(t, creatorFunc(func(context.Context, service.Actor, *api.ReservationRequest, *string) (*api.ReservationResponse, error) {
		t.Fatal("creator must not be called")
		return nil, nil
	}))

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(validRequest()))
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
