package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reservation-service/api"
	"reservation-service/internal/service"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type ReservationGetter interface {
	GetReservation(ctx context.Context, actor service.Actor, id string) (*api.ReservationResponse, error)
	ListReservations(ctx context.Context, filters *service.ReservationFilters) ([]*api.ReservationResponse, error)
}

type Response struct {
	response.Response
	Reservations []api.ReservationResponse `json:"reservations,omitempty"`
	Reservation  *api.ReservationResponse  `json:"reservation,omitempty"`
}

func New(log *slog.Logger, getter ReservationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		if id != "" {
			claims := mwAuth.Claims(r.Context())
			actor := service.Actor{UserID: claims.UserID(), Role: claims.Role}

			reservation, err := getter.GetReservation(r.Context(), actor, id)

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
				log.Error("Failed to get reservation", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get reservation"))
				return
			}

			render.JSON(w, r, Response{
				Reservation: reservation,
			})
			return
		}

		// List (route is gated to teacher/admin)
		filters := &service.ReservationFilters{}

		if roomID := r.URL.Query().Get("room_id"); roomID != "" {
			filters.RoomID = &roomID
		}
		if raw := r.URL.Query().Get("floor"); raw != "" {
			if floorNumber, err := strconv.Atoi(raw); err == nil {
				filters.FloorNumber = &floorNumber
			}
		}
		if date := r.URL.Query().Get("date"); date != "" {
			filters.Date = &date
		}
		if status := r.URL.Query().Get("status"); status != "" {
			filters.Status = &status
		}

		reservations, err := getter.ListReservations(r.Context(), filters)

		if err != nil {
			log.Error("Failed to list reservations", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list reservations"))
			return
		}

		log.Info("Reservations retrieved", slog.Int("count", len(reservations)))

		reservationsResponse := make([]api.ReservationResponse, len(reservations))
		for i, res := range reservations {
			reservationsResponse[i] = *res
		}
		render.JSON(w, r, Response{
			Reservations: reservationsResponse,
		})
	}
}
