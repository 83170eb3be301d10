package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"reservation-service/api"
	"reservation-service/internal/service"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type ReservationCreator interface {
	CreateReservation(ctx context.Context, actor service.Actor, req *api.ReservationRequest, idempotencyKey *string) (*api.ReservationResponse, error)
}

type Request struct {
	api.ReservationRequest
}

type Response struct {
	response.Response
	Reservation api.ReservationResponse `json:"reservation,omitempty"`
}

func New(log *slog.Logger, creator ReservationCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		claims := mwAuth.Claims(r.Context())
		actor := service.Actor{UserID: claims.UserID(), Role: claims.Role}

		idempotencyKey := r.Header.Get("Idempotency-Key")
		var idempotencyKeyPtr *string
		if idempotencyKey != "" {
			idempotencyKeyPtr = &idempotencyKey
		}

		reservation, err := creator.CreateReservation(r.Context(), actor, &req.ReservationRequest, idempotencyKeyPtr)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "missing or invalid fields"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("Overlapping reservation")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "time slot overlaps an existing reservation"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("Room is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "room is being booked, retry"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Room not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "room not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create reservation"))
			return
		}

		log.Info("Reservation created", slog.String("reservation_id", reservation.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Reservation: *reservation,
		})
	}
}
