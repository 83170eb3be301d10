package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reservation-service/api"
	"reservation-service/internal/service"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type StatusUpdater interface {
	UpdateReservationStatus(ctx context.Context, actor service.Actor, id string, status string) (*api.ReservationResponse, error)
}

type Request struct {
	api.ReservationStatusRequest
}

type Response struct {
	response.Response
	Reservation api.ReservationResponse `json:"reservation,omitempty"`
}

func New(log *slog.Logger, updater StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		claims := mwAuth.Claims(r.Context())
		actor := service.Actor{UserID: claims.UserID(), Role: claims.Role}

		reservation, err := updater.UpdateReservationStatus(r.Context(), actor, id, req.Status)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Invalid status", slog.String("status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "status must be pending, confirmed or cancelled"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Reservation not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "reservation not found"))
			return
		}

		if errors.Is(err, response.ErrForbidden) {
			log.Warn("Access denied")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "not your reservation"))
			return
		}

		if err != nil {
			log.Error("Failed to update reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update reservation"))
			return
		}

		log.Info("Reservation updated", slog.String("reservation_id", id), slog.String("status", reservation.Status))

		render.JSON(w, r, Response{
			Reservation: *reservation,
		})
	}
}
