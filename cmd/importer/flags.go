package main

import (
	"errors"
	"flag"
	"fmt"
)

// config хранит конфигурацию импортера.
type config struct {
	DatabaseURL   string `env:"DATABASE_URL"`
	MinioEndpoint string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	MinioUser     string `env:"MINIO_USER" envDefault:"minioadmin"`
	MinioPassword string `env:"MINIO_PASSWORD" envDefault:"minioadmin"`
	MinioUseSSL   bool   `env:"MINIO_USE_SSL"`
	MinioBucket   string `env:"MINIO_BUCKET" envDefault:"booktalk-catalogue"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`

	File         string
	MinioObject  string
	CreateSchema bool
}

// parseFlags дополняет конфигурацию из окружения флагами командной строки.
func parseFlags(cfg *config, args []string) error {
	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	fs.StringVar(&cfg.File, "file", "", "Путь к локальному books.csv")
	fs.StringVar(&cfg.MinioObject, "minio-object", "", "Имя объекта books.csv в MinIO")
	fs.StringVar(&cfg.MinioBucket, "minio-bucket", cfg.MinioBucket, "Бакет MinIO с каталогом (env: MINIO_BUCKET)")
	fs.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Строка подключения к PostgreSQL (env: DATABASE_URL)")
	fs.BoolVar(&cfg.CreateSchema, "create-schema", false, "Создать таблицы перед импортом")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("ошибка разбора флагов: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return errors.New("не указана строка подключения к БД (--database-url или DATABASE_URL)")
	}
	if (cfg.File == "") == (cfg.MinioObject == "") {
		return errors.New("укажите ровно один источник: --file или --minio-object")
	}
	return nil
}
