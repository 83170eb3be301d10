package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type ElementDeleter interface {
	DeleteElement(ctx context.Context, floorNumber int, elementID string) error
}

func New(log *slog.Logger, deleter ElementDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.elements.delete.New"

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

		err = deleter.DeleteElement(r.Context(), floorNumber, elementID)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("Element not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "element not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete element", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete element"))
			return
		}

		log.Info("Element deleted", slog.String("element_id", elementID))

		render.JSON(w, r, response.Response{})
	}
}
