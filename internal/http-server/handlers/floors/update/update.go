package update

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

type FloorUpserter interface {
	UpsertFloor(ctx context.Context, floorNumber int, req *api.FloorRequest) (*api.FloorResponse, error)
}

type Request struct {
	api.FloorRequest
}

type Response struct {
	response.Response
	Floor api.FloorResponse `json:"floor"`
}

func New(log *slog.Logger, upserter FloorUpserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.floors.update.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		floor, err := upserter.UpsertFloor(r.Context(), floorNumber, &req.FloorRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "name is required"))
			return
		}

		if err != nil {
			log.Error("Failed to upsert floor", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to upsert floor"))
			return
		}

		log.Info("Floor upserted", slog.Int("floor_number", floorNumber))

		render.JSON(w, r, Response{
			Floor: *floor,
		})
	}
}
