package my

import (
	"context"
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

type MyReservationsLister interface {
	ListMyReservations(ctx context.Context, actor service.Actor) ([]*api.ReservationResponse, error)
}

type Response struct {
	response.Response
	Reservations []api.ReservationResponse `json:"reservations"`
}

func New(log *slog.Logger, lister MyReservationsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reservations.my.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims := mwAuth.Claims(r.Context())
		actor := service.Actor{UserID: claims.UserID(), Role: claims.Role}

		reservations, err := lister.ListMyReservations(r.Context(), actor)
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
