// Точка входа gofilebox — сервис хранения файлов с JWT-сессиями.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует файловое хранилище, хранилище сессий и сервисный слой,
// запускает HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bigkaa/gofilebox/internal/api/handlers"
	"github.com/bigkaa/gofilebox/internal/api/middleware"
	"github.com/bigkaa/gofilebox/internal/config"
	"github.com/bigkaa/gofilebox/internal/database"
	"github.com/bigkaa/gofilebox/internal/repository"
	"github.com/bigkaa/gofilebox/internal/server"
	"github.com/bigkaa/gofilebox/internal/service"
	"github.com/bigkaa/gofilebox/internal/storage/filestore"
	"github.com/bigkaa/gofilebox/internal/token"
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
	logger.Info("gofilebox запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg.DatabaseDSN, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 5. Файловое хранилище
	store, err := filestore.New(cfg.DataDir)
	if err != nil {
		logger.Error("Ошибка инициализации файлового хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Файловое хранилище готово", slog.String("data_dir", store.DataDir()))

	// 6. Хранилище сессий и выпуск токенов
	tokenStore := token.NewStore()
	authority := token.NewAuthority(tokenStore,
		[]byte(cfg.JWTAccessSecret), []byte(cfg.JWTRefreshSecret),
		cfg.AccessTTL, cfg.RefreshTTL,
	)

	// 7. Репозитории и сервисный слой
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)

	authService := service.NewAuthService(userRepo, authority, logger)
	fileService := service.NewFileService(fileRepo, store, cache, logger)

	// 8. API handlers и middleware
	authHandler := handlers.NewAuthHandler(authService, authority, logger)
	fileHandler := handlers.NewFileHandler(fileService, logger)
	healthHandler := handlers.NewHealthHandler(database.NewReadinessChecker(pool))
	apiHandler := handlers.NewAPIHandler(authHandler, fileHandler, healthHandler)

	sessionAuth := middleware.NewSessionAuth(authority)

	// 9. Запуск сервера (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, apiHandler, sessionAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("gofilebox остановлен")
}
