package login

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

type UserAuthenticator interface {
	Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error)
}

type Request struct {
	api.LoginRequest
}

type Response struct {
	response.Response
	api.AuthResponse
}

func New(log *slog.Logger, authenticator UserAuthenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

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

		auth, err := authenticator.Login(r.Context(), &req.LoginRequest)

		if errors.Is(err, response.ErrValidation) {
			log.Error("Validation failed", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.VALIDATION), "login and password are required"))
			return
		}

		if errors.Is(err, response.ErrInvalidCredentials) {
			log.Warn("Invalid credentials")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(string(response.UNAUTHORIZED), "invalid login or password"))
			return
		}

		if errors.Is(err, response.ErrForbidden) {
			log.Warn("Account disabled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.FORBIDDEN), "account is disabled"))
			return
		}

		if err != nil {
			log.Error("Failed to log in", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to log in"))
			return
		}

		log.Info("User logged in", slog.String("user_id", auth.User.ID))

		render.JSON(w, r, Response{
			AuthResponse: *auth,
		})
	}
}
