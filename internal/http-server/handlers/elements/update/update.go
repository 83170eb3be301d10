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

type ElementUpdater interface {
	UpdateElement(ctx context.Context, floorNumber int, elementID string, req *api.ElementRequest) (*api.ElementResponse, error)
}

type Request struct {
	api.ElementRequest
}

type Response struct {
	response.Response
	Element api.ElementResponse `json:"element"`
}

func New(log *slog.Logger, updater ElementUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.elements.update.New"

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

		elementID := chi.URLParam(r, "elementId")
		if elementID == "" {
			log.Error("element id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "element id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		element, err := updater.UpdateElement(r.Context(), floorNumber, elementID, &req.ElementRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "missing or invalid fields"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Element not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "element not found"))
			return
		}

		if err != nil {
			log.Error("Failed to update element", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update element"))
			return
		}

		log.Info("Element updated", slog.String("element_id", element.ID))

		render.JSON(w, r, Response{
			Element: *element,
		})
	}
}
