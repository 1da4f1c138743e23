// Пакет server — HTTP-сервер gofilebox с graceful shutdown.
// Маршруты legacy-контракта объявляются явно; защищённые операции
// группируются под middleware аутентификации.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/gofilebox/internal/api/handlers"
	"github.com/bigkaa/gofilebox/internal/api/middleware"
	"github.com/bigkaa/gofilebox/internal/config"
)

// Server — HTTP-сервер gofilebox.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// sessionAuth защищает все операции, кроме signup/signin и служебных.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, sessionAuth *middleware.SessionAuth) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORS())

	// Открытые маршруты
	router.Post("/signup", handler.Auth().SignUp)
	router.Post("/signin", handler.Auth().SignIn)
	router.Post("/signin/new_token", handler.Auth().NewToken)

	// Служебные endpoints
	router.Get("/health/live", handler.Health().HealthLive)
	router.Get("/health/ready", handler.Health().HealthReady)
	router.Get("/metrics", handler.Health().GetMetrics)

	// Защищённые маршруты
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware())

		r.Get("/info", handler.Auth().Info)
		r.Get("/logout", handler.Auth().Logout)

		r.Get("/file/list", handler.Files().List)
		r.Post("/file/upload", handler.Files().Upload)
		r.Get("/file/download/{id}", handler.Files().Download)
		r.Put("/file/update/{id}", handler.Files().Update)
		r.Delete("/file/delete/{id}", handler.Files().Delete)
		r.Get("/file/{id}", handler.Files().Get)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
