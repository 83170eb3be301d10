package rooms

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

type RoomsGetter interface {
	GetRoomsByFloor(ctx context.Context, floorNumber int) ([]api.ElementResponse, error)
}

type Response struct {
	response.Response
	Rooms []api.ElementResponse `json:"rooms"`
}

func New(log *slog.Logger, getter RoomsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.floors.rooms.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		floorNumber, err := strconv.Atoi(chi.URLParam(r, "floorNumber"))
		if err != nil {
			log.Error("Invalid floor number", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "floor number must be an integer"))
			return
		}

		roomList, err := getter.GetRoomsByFloor(r.Context(), floorNumber)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Floor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "floor not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get rooms", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get rooms"))
			return
		}

		log.Info("Rooms retrieved", slog.Int("count", len(roomList)))

		render.JSON(w, r, Response{
			Rooms: roomList,
		})
	}
}
