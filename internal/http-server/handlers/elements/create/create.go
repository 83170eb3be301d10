package create

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

type ElementCreator interface {
	CreateElement(ctx context.Context, floorNumber int, req *api.ElementRequest) (*api.ElementResponse, error)
}

type Request struct {
	api.ElementRequest
}

type Response struct {
	response.Response
	Element api.ElementResponse `json:"element"`
}

func New(log *slog.Logger, creator ElementCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.elements.create.New"

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

		element, err := creator.CreateElement(r.Context(), floorNumber, &req.ElementRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "missing or invalid fields"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Floor not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "floor not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create element", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create element"))
			return
		}

		log.Info("Element created", slog.String("element_id", element.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Element: *element,
		})
	}
}
