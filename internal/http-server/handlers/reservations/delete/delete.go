package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reservation-service/internal/service"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type ReservationDeleter interface {
	DeleteReservation(ctx context.Context, actor service.Actor, id string) error
}

func New(log *slog.Logger, deleter ReservationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.delete.New"

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

		claims := mwAuth.Claims(r.Context())
		actor := service.Actor{UserID: claims.UserID(), Role: claims.Role}

		err := deleter.DeleteReservation(r.Context(), actor, id)

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
			log.Error("Failed to delete reservation", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete reservation"))
			return
		}

		log.Info("Reservation deleted", slog.String("reservation_id", id))

		render.JSON(w, r, response.Response{})
	}
}
