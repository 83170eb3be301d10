package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"reservation-service/api"
	"reservation-service/pkg/response"
	"reservation-service/pkg/sl"
)

type UserRegistrar interface {
	Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error)
}

type Request struct {
	api.RegisterRequest
}

type Response struct {
	response.Response
	api.AuthResponse
}

func New(log *slog.Logger, registrar UserRegistrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.register.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		auth, err := registrar.Register(r.Context(), &req.RegisterRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "missing or invalid fields"))
			return
		}

		if errors.Is(err, response.ErrAlreadyExists) {
			log.Error("User already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.ALREADY_EXISTS), "username or email already taken"))
			return
		}

		if err != nil {
			log.Error("Failed to register user", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to register user"))
			return
		}

		log.Info("User registered", slog.String("user_id", auth.User.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			AuthResponse: *auth,
		})
	}
}
