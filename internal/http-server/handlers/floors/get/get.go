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
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type FloorGetter interface {
	GetFloor(ctx context.Context, floorNumber int) (*api.FloorResponse, error)
	ListFloors(ctx context.Context) ([]*api.FloorResponse, error)
}

type Response struct {
	response.Response
	Floors []api.FloorResponse `json:"floors,omitempty"`
	Floor  *api.FloorResponse  `json:"floor,omitempty"`
}

func New(log *slog.Logger, getter FloorGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.floors.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		raw := chi.URLParam(r, "floorNumber")

		if raw != "" {
			floorNumber, err := strconv.Atoi(raw)
			if err != nil {
				log.Error("Invalid floor number", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.VALIDATION), "floor number must be an integer"))
				return
			}

			floor, err := getter.GetFloor(r.Context(), floorNumber)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("Floor not found")
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "floor not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get floor", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get floor"))
				return
			}

			render.JSON(w, r, Response{
				Floor: floor,
			})
			return
		}

		// List
		floors, err := getter.ListFloors(r.Context())
		if err != nil {
			log.Error("Failed to list floors", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list floors"))
			return
		}

		log.Info("Floors retrieved", slog.Int("count", len(floors)))

		floorsResponse := make([]api.FloorResponse, len(floors))
		for i, floor := range floors {
			floorsResponse[i] = *floor
		}
		render.JSON(w, r, Response{
			Floors: floorsResponse,
		})
	}
}
