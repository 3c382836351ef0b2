// Точка входа api-module — backend категорий и активностей.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует верификатор удостоверений IdP и менеджер сессионных
// токенов, создаёт сервисный слой и API handlers, запускает
// topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/actiplan/api-module/internal/api/handlers"
	"github.com/actiplan/api-module/internal/api/middleware"
	"github.com/actiplan/api-module/internal/cache"
	"github.com/actiplan/api-module/internal/config"
	"github.com/actiplan/api-module/internal/database"
	"github.com/actiplan/api-module/internal/idp"
	"github.com/actiplan/api-module/internal/repository"
	"github.com/actiplan/api-module/internal/server"
	"github.com/actiplan/api-module/internal/service"
	"github.com/actiplan/api-module/internal/token"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("api-module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("AP_DEPHEALTH_GROUP") == "" {
		logger.Warn("AP_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL идёт через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Верификатор удостоверений IdP (JWKS с фоновым обновлением)
	verifier, err := idp.New(
		cfg.IDPJWKSURL,
		cfg.IDPIssuer,
		cfg.IDPJWKSRefreshInterval,
		cfg.IDPJWKSClientTimeout,
		cfg.IDPTokenLeeway,
		logger,
	)
	if err != nil {
		logger.Error("Ошибка создания верификатора IdP", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Верификатор IdP инициализирован",
		slog.String("jwks_url", cfg.IDPJWKSURL),
		slog.String("issuer", cfg.IDPIssuer),
	)

	// 6. Менеджер сессионных токенов
	tokens := token.New([]byte(cfg.SessionSecret), cfg.SessionIssuer, cfg.SessionTTL)

	// 7. Repositories
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)

	// 8. Кэш ролей (nil при AP_ROLE_CACHE_TTL=0)
	roleCache := cache.New(cfg.RoleCacheSize, cfg.RoleCacheTTL)
	if roleCache == nil {
		logger.Info("Кэш ролей отключён (AP_ROLE_CACHE_TTL=0)")
	} else {
		logger.Info("Кэш ролей включён",
			slog.String("ttl", cfg.RoleCacheTTL.String()),
			slog.Int("size", cfg.RoleCacheSize),
		)
	}

	// 9. Services
	authSvc := service.NewAuthService(verifier, userRepo, tokens, roleCache, cfg.DBQueryTimeout, logger)
	adminUsersSvc := service.NewAdminUserService(userRepo, roleCache, cfg.DBQueryTimeout, logger)
	categoriesSvc := service.NewCategoryService(categoryRepo, cfg.DBQueryTimeout, logger)
	activitiesSvc := service.NewActivityService(activityRepo, categoryRepo, cfg.DBQueryTimeout, logger)

	// 10. Readiness checkers (PostgreSQL + IdP)
	pgChecker := database.NewReadinessChecker(pool)
	idpChecker := idp.NewReadinessChecker(cfg.IDPJWKSURL, cfg.IDPJWKSClientTimeout)
	healthHandler := handlers.NewHealthHandler(pgChecker, idpChecker)

	// 11. API handler
	apiHandler := handlers.NewAPIHandler(
		healthHandler,
		authSvc,
		adminUsersSvc,
		categoriesSvc,
		activitiesSvc,
		logger,
	)

	// 12. Session middleware
	sessionAuth := middleware.NewSessionAuth(tokens, authSvc, logger)

	// 13. topologymetrics — мониторинг зависимостей (PostgreSQL + IdP)
	dephealthSvc, dephealthErr := service.NewDephealthService(service.DephealthParams{
		ServiceID:     "api-module",
		Group:         cfg.DephealthGroup,
		DB:            pgDB,
		PGConnURL:     cfg.DatabaseURL(),
		IDPJWKSURL:    cfg.IDPJWKSURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 14. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 15. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("api-module остановлен")
}
