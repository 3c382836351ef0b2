// Пакет config — загрузка и валидация конфигурации api-module
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

// Config содержит все параметры конфигурации api-module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Максимальное количество соединений в пуле
	DBMaxConns int
	// Таймаут одной операции с БД (включая ожидание соединения из пула)
	DBQueryTimeout time.Duration

	// --- Identity Provider ---

	// URL JWKS endpoint внешнего IdP
	IDPJWKSURL string
	// Ожидаемый issuer ID-токенов IdP
	IDPIssuer string
	// Интервал обновления JWKS-ключей
	IDPJWKSRefreshInterval time.Duration
	// Таймаут HTTP-клиента JWKS
	IDPJWKSClientTimeout time.Duration
	// Допустимое отклонение времени при проверке ID-токена
	IDPTokenLeeway time.Duration

	// --- Сессии ---

	// Секрет подписи сессионных токенов (HS256)
	SessionSecret string
	// Issuer сессионных токенов
	SessionIssuer string
	// Время жизни сессионного токена
	SessionTTL time.Duration

	// --- Кэш ролей ---

	// TTL кэша ролей для re-check режима (0 — кэш отключён)
	RoleCacheTTL time.Duration
	// Максимальный размер кэша ролей
	RoleCacheSize int

	// --- Мониторинг зависимостей ---

	// Группа topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AP_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("AP_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("AP_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AP_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AP_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AP_LOG_LEVEL: %w", err)
	}

	// AP_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AP_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AP_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// AP_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("AP_DB_HOST")
	if err != nil {
		return nil, err
	}

	// AP_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("AP_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("AP_DB_PORT: %w", err)
	}

	// AP_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("AP_DB_NAME")
	if err != nil {
		return nil, err
	}

	// AP_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("AP_DB_USER")
	if err != nil {
		return nil, err
	}

	// AP_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("AP_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// AP_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("AP_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("AP_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// AP_DB_MAX_CONNS — размер пула соединений (по умолчанию 10)
	cfg.DBMaxConns, err = getEnvInt("AP_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("AP_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 100 {
		return nil, fmt.Errorf("AP_DB_MAX_CONNS: значение %d вне допустимого диапазона 1-100", cfg.DBMaxConns)
	}

	// AP_DB_QUERY_TIMEOUT — таймаут операции с БД (по умолчанию 5s)
	cfg.DBQueryTimeout, err = getEnvDuration("AP_DB_QUERY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AP_DB_QUERY_TIMEOUT: %w", err)
	}

	// --- Identity Provider ---

	// AP_IDP_JWKS_URL — обязательный
	cfg.IDPJWKSURL, err = getEnvRequired("AP_IDP_JWKS_URL")
	if err != nil {
		return nil, err
	}

	// AP_IDP_ISSUER — обязательный
	cfg.IDPIssuer, err = getEnvRequired("AP_IDP_ISSUER")
	if err != nil {
		return nil, err
	}
	cfg.IDPIssuer = strings.TrimRight(cfg.IDPIssuer, "/")

	// AP_IDP_JWKS_REFRESH_INTERVAL — интервал обновления ключей (по умолчанию 1h)
	cfg.IDPJWKSRefreshInterval, err = getEnvDuration("AP_IDP_JWKS_REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AP_IDP_JWKS_REFRESH_INTERVAL: %w", err)
	}

	// AP_IDP_JWKS_CLIENT_TIMEOUT — таймаут HTTP-клиента JWKS (по умолчанию 10s)
	cfg.IDPJWKSClientTimeout, err = getEnvDuration("AP_IDP_JWKS_CLIENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AP_IDP_JWKS_CLIENT_TIMEOUT: %w", err)
	}

	// AP_IDP_TOKEN_LEEWAY — допустимое отклонение времени (по умолчанию 30s)
	cfg.IDPTokenLeeway, err = getEnvDuration("AP_IDP_TOKEN_LEEWAY", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AP_IDP_TOKEN_LEEWAY: %w", err)
	}

	// --- Сессии ---

	// AP_SESSION_SECRET — обязательный, не короче 32 символов
	cfg.SessionSecret, err = getEnvRequired("AP_SESSION_SECRET")
	if err != nil {
		return nil, err
	}
	if len(cfg.SessionSecret) < 32 {
		return nil, fmt.Errorf("AP_SESSION_SECRET: длина %d меньше минимальной (32 символа)", len(cfg.SessionSecret))
	}

	// AP_SESSION_ISSUER — issuer сессионных токенов (по умолчанию actiplan/api-module)
	cfg.SessionIssuer = getEnvDefault("AP_SESSION_ISSUER", "actiplan/api-module")

	// AP_SESSION_TTL — время жизни сессионного токена (по умолчанию 1h)
	cfg.SessionTTL, err = getEnvDuration("AP_SESSION_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("AP_SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL < time.Minute {
		return nil, fmt.Errorf("AP_SESSION_TTL: значение %s меньше минимального (1m)", cfg.SessionTTL)
	}

	// --- Кэш ролей ---

	// AP_ROLE_CACHE_TTL — TTL кэша ролей (по умолчанию 0 — отключён)
	cfg.RoleCacheTTL, err = getEnvDuration("AP_ROLE_CACHE_TTL", 0)
	if err != nil {
		return nil, fmt.Errorf("AP_ROLE_CACHE_TTL: %w", err)
	}

	// AP_ROLE_CACHE_SIZE — размер кэша ролей (по умолчанию 1024)
	cfg.RoleCacheSize, err = getEnvInt("AP_ROLE_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("AP_ROLE_CACHE_SIZE: %w", err)
	}
	if cfg.RoleCacheSize < 1 {
		return nil, fmt.Errorf("AP_ROLE_CACHE_SIZE: значение %d должно быть положительным", cfg.RoleCacheSize)
	}

	// --- Мониторинг зависимостей ---

	// AP_DEPHEALTH_GROUP — группа topologymetrics (по умолчанию actiplan)
	cfg.DephealthGroup = getEnvDefault("AP_DEPHEALTH_GROUP", "actiplan")

	// AP_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AP_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AP_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// AP_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AP_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode, c.DBMaxConns,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для topologymetrics).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
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
