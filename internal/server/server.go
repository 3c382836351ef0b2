// Пакет server — HTTP-сервер api-module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/actiplan/api-module/internal/api/handlers"
	"github.com/actiplan/api-module/internal/api/middleware"
	"github.com/actiplan/api-module/internal/config"
	"github.com/actiplan/api-module/internal/domain/rbac"
)

// Server — HTTP-сервер api-module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// sessionAuth может быть nil только в тестах отдельных handlers.
func New(cfg *config.Config, logger *slog.Logger, handler *handlers.APIHandler, sessionAuth *middleware.SessionAuth) *Server {
	router := NewRouter(handler, sessionAuth, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-router со всеми маршрутами и middleware.
// Вынесен отдельно для httptest в интеграционных тестах API.
func NewRouter(handler *handlers.APIHandler, sessionAuth *middleware.SessionAuth, logger *slog.Logger) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Публичные endpoints: probes, метрики, вход.
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)
	router.Post("/api/v1/auth/login", handler.Login)

	// Маршруты с сессией, роль из токена.
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware(middleware.ModeTrustEmbeddedRole))

		r.Get("/api/v1/categories", handler.ListCategories)
		r.Post("/api/v1/categories", handler.CreateCategory)
		r.Put("/api/v1/categories/{id}", handler.UpdateCategory)
		r.Delete("/api/v1/categories/{id}", handler.DeleteCategory)

		r.Get("/api/v1/activities", handler.ListActivities)
		r.Post("/api/v1/activities", handler.CreateActivity)
		r.Put("/api/v1/activities/{id}", handler.UpdateActivity)
		r.Delete("/api/v1/activities/{id}", handler.DeleteActivity)

		// Общий каталог, только чтение.
		r.Get("/api/v1/catalog/categories", handler.ListCatalogCategories)
		r.Get("/api/v1/catalog/activities", handler.ListCatalogActivities)
	})

	// /auth/me — re-check: роль и статус всегда из таблицы.
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware(middleware.ModeRecheckRole))
		r.Get("/api/v1/auth/me", handler.Me)
	})

	// Административные маршруты: re-check + роль admin.
	router.Group(func(r chi.Router) {
		r.Use(sessionAuth.Middleware(middleware.ModeRecheckRole))
		r.Use(middleware.RequireRole(rbac.RoleAdmin))

		r.Get("/api/v1/admin/users", handler.ListUsers)
		r.Put("/api/v1/admin/users/{subject}/role", handler.UpdateUserRole)
		r.Put("/api/v1/admin/users/{subject}/status", handler.UpdateUserStatus)

		r.Post("/api/v1/admin/categories", handler.CreateCatalogCategory)
		r.Put("/api/v1/admin/categories/{id}", handler.UpdateCatalogCategory)
		r.Delete("/api/v1/admin/categories/{id}", handler.DeleteCatalogCategory)

		r.Post("/api/v1/admin/activities", handler.CreateCatalogActivity)
		r.Put("/api/v1/admin/activities/{id}", handler.UpdateCatalogActivity)
		r.Delete("/api/v1/admin/activities/{id}", handler.DeleteCatalogActivity)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
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

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
