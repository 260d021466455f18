package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// config хранит конфигурацию сервера.
// Приоритет: флаги командной строки, затем окружение (и .env), затем значения по умолчанию.
type config struct {
	Address        string        `env:"SERVER_ADDRESS" envDefault:":8080"`
	CertFile       string        `env:"TLS_CERT_FILE"`
	KeyFile        string        `env:"TLS_KEY_FILE"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RatingsURL     string        `env:"RATINGS_API_URL" envDefault:"https://www.goodreads.com/book/review_counts.json"`
	RatingsKey     string        `env:"RATINGS_API_KEY"`
	RatingsTimeout time.Duration `env:"RATINGS_TIMEOUT" envDefault:"5s"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	RedisURL       string        `env:"REDIS_URL"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
}

// TLSEnabled сообщает, что заданы и сертификат, и ключ.
func (c *config) TLSEnabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// loadDotEnv подгружает .env из текущего каталога, если он есть.
// Уже заданные переменные окружения не перезаписываются.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debugf("Файл .env не загружен: %v", err)
	}
}

// parseConfig разбирает окружение и флаги, возвращает config или ошибку.
func parseConfig(args []string) (*config, error) {
	cfg := &config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ошибка разбора переменных окружения: %w", err)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Address, "address", cfg.Address, "Адрес HTTP-сервера (env: SERVER_ADDRESS)")
	fs.StringVar(&cfg.CertFile, "cert-file", cfg.CertFile, "Путь к файлу TLS-сертификата (env: TLS_CERT_FILE)")
	fs.StringVar(&cfg.KeyFile, "key-file", cfg.KeyFile, "Путь к файлу TLS-ключа (env: TLS_KEY_FILE)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Строка подключения к PostgreSQL (env: DATABASE_URL)")
	fs.StringVar(&cfg.RatingsURL, "ratings-url", cfg.RatingsURL, "Адрес сервиса рейтингов (env: RATINGS_API_URL)")
	fs.StringVar(&cfg.RatingsKey, "ratings-key", cfg.RatingsKey, "Ключ API сервиса рейтингов (env: RATINGS_API_KEY)")
	fs.DurationVar(&cfg.RatingsTimeout, "ratings-timeout", cfg.RatingsTimeout,
		"Таймаут запроса к сервису рейтингов (env: RATINGS_TIMEOUT)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret,
		"Ключ подписи cookie сессии (env: SESSION_SECRET)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Время жизни сессии (env: SESSION_TTL)")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Адрес Redis для сессий (env: REDIS_URL)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Уровень логирования (env: LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Формат логов: text или json (env: LOG_FORMAT)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("ошибка разбора флагов: %w", err)
	}

	// Проверяем обязательные параметры
	if cfg.DatabaseURL == "" {
		return nil, errors.New("не указана строка подключения к БД (--database-url или DATABASE_URL)")
	}
	if cfg.RatingsKey == "" {
		return nil, errors.New("не указан ключ API рейтингов (--ratings-key или RATINGS_API_KEY)")
	}
	if (cfg.CertFile == "") != (cfg.KeyFile == "") {
		return nil, errors.New("для HTTPS нужны оба параметра: --cert-file и --key-file")
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("время жизни сессии должно быть положительным")
	}

	return cfg, nil
}
