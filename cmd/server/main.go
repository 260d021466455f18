package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adamjdecaria/cs50wproject1/internal/handlers"
	"github.com/adamjdecaria/cs50wproject1/internal/logger"
	"github.com/adamjdecaria/cs50wproject1/internal/metrics"
	appmiddleware "github.com/adamjdecaria/cs50wproject1/internal/middleware"
	"github.com/adamjdecaria/cs50wproject1/internal/ratings"
	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/internal/services"
	"github.com/adamjdecaria/cs50wproject1/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	// Запас на чтение из БД и отрисовку страницы после ответа сервиса рейтингов.
	writeTimeoutMargin = 10 * time.Second

	generatedSecretBytes = 32
)

// newPostgresDB подменяется в тестах.
var newPostgresDB = repository.NewPostgresDB

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db     *sqlx.DB
	redis  *redis.Client // nil, если сессии хранятся в памяти
	routes routes
}

// routes - обработчики, которые подключает setupRouter.
type routes struct {
	sessions *session.Manager
	auth     *handlers.AuthHandler
	books    *handlers.BookHandler
	api      *handlers.APIHandler
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	if err := run(); err != nil {
		log.Errorf("Ошибка выполнения сервера: %v", err)
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run() error {
	loadDotEnv()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		return err
	}
	if err = logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	log.Println("Запуск сервера Book Talk...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer deps.close()

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      setupRouter(deps.routes),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: writeTimeout(cfg.RatingsTimeout),
		IdleTimeout:  defaultIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if cfg.TLSEnabled() {
			log.Printf("Запуск HTTPS-сервера на %s (сертификат: %s)", cfg.Address, cfg.CertFile)
			serveErr <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		log.Printf("Запуск HTTP-сервера на %s", cfg.Address)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Получен сигнал завершения, останавливаем сервер...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	log.Println("Сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	deps := &dependencies{}
	var err error

	// 1. Подключение к БД
	deps.db, err = newPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	log.Println("Соединение с БД успешно установлено.")

	// 2. Хранилище сессий
	var store session.Store
	if cfg.RedisURL != "" {
		deps.redis, err = session.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			deps.close()
			return nil, err
		}
		store = session.NewRedisStore(deps.redis)
	} else {
		log.Println("REDIS_URL не задан, сессии хранятся в памяти процесса")
		store = session.NewMemoryStore()
	}

	secret, err := sessionSecret(cfg.SessionSecret)
	if err != nil {
		deps.close()
		return nil, err
	}

	// 3. Репозитории и клиент рейтингов
	userRepo := repository.NewPostgresUserRepository(deps.db)
	bookRepo := repository.NewPostgresBookRepository(deps.db)
	reviewRepo := repository.NewPostgresReviewRepository(deps.db)
	ratingsClient := ratings.NewHTTPClient(ratings.Config{
		BaseURL: cfg.RatingsURL,
		APIKey:  cfg.RatingsKey,
		Timeout: cfg.RatingsTimeout,
	})

	deps.routes, err = buildRoutes(appParts{
		users:   userRepo,
		books:   bookRepo,
		reviews: reviewRepo,
		ratings: ratingsClient,
		store:   store,
		session: session.Config{Secret: secret, TTL: cfg.SessionTTL, Secure: cfg.TLSEnabled()},
	})
	if err != nil {
		deps.close()
		return nil, err
	}
	return deps, nil
}

// appParts - источники данных, из которых собираются обработчики.
type appParts struct {
	users   repository.UserRepository
	books   repository.BookRepository
	reviews repository.ReviewRepository
	ratings ratings.Client
	store   session.Store
	session session.Config
}

// buildRoutes создает сервисы и обработчики поверх источников данных.
func buildRoutes(p appParts) (routes, error) {
	sessions, err := session.NewManager(p.store, p.session)
	if err != nil {
		return routes{}, err
	}
	views, err := handlers.NewRenderer()
	if err != nil {
		return routes{}, err
	}

	authService := services.NewAuthService(p.users)
	catalogue := services.NewCatalogueService(p.books, p.reviews, p.ratings)
	reviewService := services.NewReviewService(p.reviews, catalogue)

	return routes{
		sessions: sessions,
		auth:     handlers.NewAuthHandler(authService, sessions, views),
		books:    handlers.NewBookHandler(catalogue, reviewService, sessions, views),
		api:      handlers.NewAPIHandler(catalogue),
	}, nil
}

// sessionSecret возвращает ключ подписи. Без настройки генерируется случайный
// ключ: сессии не переживут перезапуск процесса.
func sessionSecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	log.Warn("SESSION_SECRET не задан, используется случайный ключ: сессии сбросятся при перезапуске")
	secret := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("ошибка генерации ключа сессий: %w", err)
	}
	return secret, nil
}

// writeTimeout не дает серверу оборвать ответ раньше, чем обработчик
// дождется сервиса рейтингов и отрисует страницу.
func writeTimeout(ratingsTimeout time.Duration) time.Duration {
	return max(defaultWriteTimeout, ratingsTimeout+writeTimeoutMargin)
}

func (d *dependencies) close() {
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warnf("Ошибка закрытия соединения с Redis: %v", err)
		}
	}
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warnf("Ошибка закрытия соединения с БД: %v", err)
		}
	}
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(rt routes) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(metrics.Instrument)

	// --- Служебные маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})
	r.Handle("/metrics", metrics.Handler())

	// Публичный JSON-эндпоинт работает без сессий
	r.Get("/api/{isbn}", rt.api.GetBook)

	// --- HTML-страницы --- //
	r.Group(func(r chi.Router) {
		r.Use(appmiddleware.Sessions(rt.sessions))

		r.Get("/", rt.auth.Index)
		r.Get("/register", rt.auth.RegisterForm)
		r.Post("/register", rt.auth.Register)
		r.Get("/login", rt.auth.Login)
		r.Post("/login", rt.auth.Login)
		r.Get("/logout", rt.auth.Logout)

		// Приватные маршруты (требуют входа)
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.RequireLogin(rt.sessions))

			r.Get("/search", rt.books.SearchForm)
			r.Post("/search", rt.books.Search)
			r.Post("/search_by_ISBN", rt.books.SearchByISBN)
			r.Post("/submitReview", rt.books.SubmitReview)
		})
	})
	return r
}
