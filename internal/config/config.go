// Пакет config — загрузка и валидация конфигурации gofilebox
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации gofilebox.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// DSN подключения к PostgreSQL
	DatabaseDSN string

	// --- Хранилище файлов ---

	// Директория хранения физических файлов
	DataDir string

	// --- Сессии ---

	// Секрет подписи access-токенов
	JWTAccessSecret string
	// Секрет подписи refresh-токенов
	JWTRefreshSecret string
	// Время жизни access-токена (по умолчанию 10m)
	AccessTTL time.Duration
	// Время жизни refresh-токена (по умолчанию 24h)
	RefreshTTL time.Duration

	// --- Кэш метаданных ---

	// Максимальное количество записей в LRU-кэше
	CacheSize int
	// Время жизни записи кэша
	CacheTTL time.Duration

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// FB_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("FB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("FB_PORT: %w", err)
	}

	// FB_LOG_LEVEL — уровень логирования (по умолчанию info)
	logLevel := getEnvDefault("FB_LOG_LEVEL", "info")
	cfg.LogLevel, err = parseLogLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("FB_LOG_LEVEL: %w", err)
	}

	// FB_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FB_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// FB_DATABASE_DSN — DSN подключения, обязательная
	cfg.DatabaseDSN, err = getEnvRequired("FB_DATABASE_DSN")
	if err != nil {
		return nil, err
	}

	// --- Хранилище файлов ---

	// FB_DATA_DIR — директория данных (по умолчанию ./upload)
	cfg.DataDir = getEnvDefault("FB_DATA_DIR", "upload")

	// --- Сессии ---

	// FB_JWT_ACCESS_SECRET — секрет access-токенов, обязательная
	cfg.JWTAccessSecret, err = getEnvRequired("FB_JWT_ACCESS_SECRET")
	if err != nil {
		return nil, err
	}

	// FB_JWT_REFRESH_SECRET — секрет refresh-токенов, обязательная
	cfg.JWTRefreshSecret, err = getEnvRequired("FB_JWT_REFRESH_SECRET")
	if err != nil {
		return nil, err
	}

	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("FB_JWT_ACCESS_SECRET и FB_JWT_REFRESH_SECRET должны различаться")
	}

	// FB_ACCESS_TTL — время жизни access-токена (по умолчанию 10m)
	cfg.AccessTTL, err = getEnvDuration("FB_ACCESS_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FB_ACCESS_TTL: %w", err)
	}

	// FB_REFRESH_TTL — время жизни refresh-токена (по умолчанию 24h)
	cfg.RefreshTTL, err = getEnvDuration("FB_REFRESH_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FB_REFRESH_TTL: %w", err)
	}

	// --- Кэш метаданных ---

	// FB_CACHE_SIZE — размер LRU-кэша (по умолчанию 1024)
	cfg.CacheSize, err = getEnvInt("FB_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FB_CACHE_SIZE: %w", err)
	}

	// FB_CACHE_TTL — TTL записи кэша (по умолчанию 5m)
	cfg.CacheTTL, err = getEnvDuration("FB_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FB_CACHE_TTL: %w", err)
	}

	// --- HTTP Server Timeouts ---

	// FB_HTTP_READ_TIMEOUT — таймаут чтения (по умолчанию 30s)
	cfg.HTTPReadTimeout, err = getEnvDuration("FB_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_HTTP_READ_TIMEOUT: %w", err)
	}

	// FB_HTTP_WRITE_TIMEOUT — таймаут записи (по умолчанию 60s)
	cfg.HTTPWriteTimeout, err = getEnvDuration("FB_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// FB_HTTP_IDLE_TIMEOUT — таймаут простоя (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("FB_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	// FB_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
