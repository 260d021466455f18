// Команда importer загружает каталог книг из CSV (локального или из MinIO) в PostgreSQL.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/adamjdecaria/cs50wproject1/internal/catalogue"
	"github.com/adamjdecaria/cs50wproject1/internal/logger"
	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/internal/storage"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		log.Errorf("Ошибка импорта: %v", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Debugf("Файл .env не загружен: %v", err)
	}

	cfg, err := env.ParseAs[config]()
	if err != nil {
		return fmt.Errorf("ошибка разбора переменных окружения: %w", err)
	}
	if err = parseFlags(&cfg, os.Args[1:]); err != nil {
		return err
	}
	if err = logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warnf("Ошибка закрытия соединения с БД: %v", closeErr)
		}
	}()

	if cfg.CreateSchema {
		if err = repository.EnsureSchema(ctx, db); err != nil {
			return err
		}
	}

	src, err := openSource(ctx, &cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Warnf("Ошибка закрытия источника каталога: %v", closeErr)
		}
	}()

	res, err := catalogue.Import(ctx, repository.NewPostgresBookRepository(db), src)
	if err != nil {
		return err
	}
	fmt.Printf("read=%d skipped=%d inserted=%d\n", res.Read, res.Skipped, res.Inserted)
	return nil
}

// openSource открывает локальный файл или объект MinIO.
func openSource(ctx context.Context, cfg *config) (io.ReadCloser, error) {
	if cfg.File != "" {
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("ошибка открытия файла каталога: %w", err)
		}
		return f, nil
	}

	client, err := storage.NewMinioClient(ctx, storage.MinioConfig{
		Endpoint:        cfg.MinioEndpoint,
		AccessKeyID:     cfg.MinioUser,
		SecretAccessKey: cfg.MinioPassword,
		UseSSL:          cfg.MinioUseSSL,
		BucketName:      cfg.MinioBucket,
	})
	if err != nil {
		return nil, err
	}
	return client.Open(ctx, cfg.MinioObject)
}
