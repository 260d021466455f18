// Package storage открывает файлы каталога, лежащие в объектном хранилище MinIO.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ObjectSource определяет интерфейс чтения объектов из хранилища.
type ObjectSource interface {
	Open(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// MinioClient реализует ObjectSource для MinIO.
type MinioClient struct {
	client     *minio.Client
	bucketName string
}

var _ ObjectSource = (*MinioClient)(nil)

// MinioConfig содержит параметры для подключения к MinIO.
type MinioConfig struct {
	Endpoint        string // Адрес MinIO (например, "localhost:9000")
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	BucketName      string
	Region          string // Пустой регион запрашивается у сервера
}

// NewMinioClient создает клиент и проверяет, что бакет существует.
func NewMinioClient(ctx context.Context, cfg MinioConfig) (*MinioClient, error) {
	log.Printf("[Minio] Инициализация клиента для эндпоинта %s...", cfg.Endpoint)

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки существования бакета '%s': %w", cfg.BucketName, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, cfg.BucketName)
	}

	log.Printf("[Minio] Клиент инициализирован для бакета '%s'", cfg.BucketName)
	return &MinioClient{client: minioClient, bucketName: cfg.BucketName}, nil
}

// Open открывает объект на чтение. Возвращенный io.ReadCloser нужно закрыть.
// Отсутствие объекта обнаруживается при Stat и возвращается как ErrObjectNotFound.
func (c *MinioClient) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	log.Printf("[Minio] Открытие объекта '%s' из бакета '%s'...", objectKey, c.bucketName)

	object, err := c.client.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapObjectError(objectKey, err)
	}

	// GetObject ленив: ошибки доступа проявляются только при первом обращении
	stat, err := object.Stat()
	if err != nil {
		if closeErr := object.Close(); closeErr != nil {
			log.Warnf("[Minio] Ошибка закрытия объекта '%s': %v", objectKey, closeErr)
		}
		return nil, mapObjectError(objectKey, err)
	}

	log.Printf("[Minio] Объект '%s' открыт, размер: %d", objectKey, stat.Size)
	return object, nil
}

func mapObjectError(objectKey string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		log.Printf("[Minio] Объект '%s' не найден", objectKey)
		return ErrObjectNotFound
	}
	return fmt.Errorf("ошибка получения объекта '%s' из MinIO: %w", objectKey, err)
}

// Ошибки хранилища.
var (
	ErrObjectNotFound = errors.New("объект не найден в хранилище")
	ErrBucketNotFound = errors.New("бакет не найден")
)
