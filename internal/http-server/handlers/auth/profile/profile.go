package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"reservation-service/api"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type ProfileGetter interface {
	Profile(ctx context.Context, userID string) (*api.UserResponse, error)
}

type Response struct {
	response.Response
	User api.UserResponse `json:"user"`
}

func New(log *slog.Logger, getter ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.profile.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		claims := mwAuth.Claims(r.Context())

		user, err := getter.Profile(r.Context(), claims.UserID())

		if errors.Is(err, response.ErrNotFound) {
			log.Error("User not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "user not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get profile"))
			return
		}

		render.JSON(w, r, Response{
			User: *user,
		})
	}
}
