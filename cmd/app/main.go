package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"reservation-service/internal/config"
	authLogin "reservation-service/internal/http-server/handlers/auth/login"
	authProfile "reservation-service/internal/http-server/handlers/auth/profile"
	authRegister "reservation-service/internal/http-server/handlers/auth/register"
	elementCreate "reservation-service/internal/http-server/handlers/elements/create"
	elementDelete "reservation-service/internal/http-server/handlers/elements/delete"
	elementUpdate "reservation-service/internal/http-server/handlers/elements/update"
	floorGet "reservation-service/internal/http-server/handlers/floors/get"
	floorRooms "reservation-service/internal/http-server/handlers/floors/rooms"
	floorUpdate "reservation-service/internal/http-server/handlers/floors/update"
	reservationCreate "reservation-service/internal/http-server/handlers/reservations/create"
	reservationDelete "reservation-service/internal/http-server/handlers/reservations/delete"
	reservationGet "reservation-service/internal/http-server/handlers/reservations/get"
	reservationMy "reservation-service/internal/http-server/handlers/reservations/my"
	reservationUpdate "reservation-service/internal/http-server/handlers/reservations/update"
	"reservation-service/internal/lock"
	svc "reservation-service/internal/service"
	"reservation-service/internal/storage/postgres"
	"reservation-service/internal/token"
	slogpretty "reservation-service/pkg/handlers/slogPretty"
	"reservation-service/pkg/middleware/mwAuth"
	"reservation-service/pkg/middleware/mwLogger"
	"reservation-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	if err := storage.Init(initCtx); err != nil {
		cancelInit()
		log.Error("Failed to apply schema", sl.Err(err))
		os.Exit(1)
	}
	cancelInit()

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	tokens := token.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	service := svc.NewService(storage, locker, locker, tokens, cfg.Auth.BcryptCost)

	auth := mwAuth.New(log, tokens)
	adminOnly := mwAuth.RequireRole("admin")
	staffOnly := mwAuth.RequireRole("teacher", "admin")

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	router.Route("/api", func(r chi.Router) {
		// Auth
		r.Post("/auth/register", authRegister.New(log, service))
		r.Post("/auth/login", authLogin.New(log, service))
		r.With(auth).Get("/auth/profile", authProfile.New(log, service))

		// Floors
		r.Get("/floors", floorGet.New(log, service))
		r.Get("/floors/{floorNumber}", floorGet.New(log, service))
		r.Get("/floors/{floorNumber}/rooms", floorRooms.New(log, service))
		r.With(auth, adminOnly).Put("/floors/{floorNumber}", floorUpdate.New(log, service))

		// Elements
		r.With(auth, adminOnly).Post("/floors/{floorNumber}/elements", elementCreate.New(log, service))
		r.With(auth, adminOnly).Put("/floors/{floorNumber}/elements/{elementId}", elementUpdate.New(log, service))
		r.With(auth, adminOnly).Delete("/floors/{floorNumber}/elements/{elementId}", elementDelete.New(log, service))

		// Reservations
		r.With(auth).Post("/reservations", reservationCreate.New(log, service))
		r.With(auth).Get("/reservations/my", reservationMy.New(log, service))
		r.With(auth, staffOnly).Get("/reservations", reservationGet.New(log, service))
		r.With(auth).Get("/reservations/{id}", reservationGet.New(log, service))
		r.With(auth).Put("/reservations/{id}", reservationUpdate.New(log, service))
		r.With(auth).Delete("/reservations/{id}", reservationDelete.New(log, service))
	})

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := storage.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
