package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/adamjdecaria/cs50wproject1/internal/repository"
	"github.com/adamjdecaria/cs50wproject1/models"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthService определяет интерфейс для сервиса аутентификации.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) error
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
}

// Убедимся, что authService удовлетворяет интерфейсу AuthService.
var _ AuthService = (*authService)(nil)

// dummyPassword хешируется один раз при создании сервиса. С этим хешем
// сравнивается пароль при входе неизвестного пользователя, чтобы ответ
// занимал столько же времени, сколько для существующего.
const dummyPassword = "booktalk-no-such-user"

type authService struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	dummyHash string
}

// NewAuthService создает новый экземпляр сервиса аутентификации.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return NewAuthServiceWithHasher(userRepo, NewBcryptHasher(bcrypt.DefaultCost))
}

// NewAuthServiceWithCost позволяет задать стоимость bcrypt (в тестах - bcrypt.MinCost).
func NewAuthServiceWithCost(userRepo repository.UserRepository, cost int) AuthService {
	return NewAuthServiceWithHasher(userRepo, NewBcryptHasher(cost))
}

// NewAuthServiceWithHasher создает сервис с произвольным PasswordHasher.
func NewAuthServiceWithHasher(userRepo repository.UserRepository, hasher PasswordHasher) AuthService {
	dummyHash, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warnf("[AuthService] Не удалось подготовить фиктивный хеш: %v", err)
	}
	return &authService{userRepo: userRepo, hasher: hasher, dummyHash: dummyHash}
}

// Register проверяет форму регистрации и создает пользователя.
// Поля проверяются по порядку: имя, пароль, подтверждение, совпадение.
func (s *authService) Register(ctx context.Context, req models.RegisterRequest) error {
	switch {
	case req.Username == "":
		return invalid("username", "Must provide a username.")
	case req.Password == "":
		return invalid("password", "Must provide a password.")
	case req.Confirmation == "":
		return invalid("confirmation", "Must confirm password.")
	case req.Password != req.Confirmation:
		return invalid("confirmation", "Password and Confirmation must be the same.")
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		log.Errorf("[AuthService] Ошибка хеширования пароля для '%s': %v", req.Username, err)
		return err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
	}

	if _, err = s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			log.Printf("[AuthService] Попытка регистрации с занятым именем: %s", req.Username)
			return ErrUsernameTaken
		}
		log.Errorf("[AuthService] Ошибка репозитория при регистрации '%s': %v", req.Username, err)
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	log.Printf("[AuthService] Пользователь '%s' успешно зарегистрирован", req.Username)
	return nil
}

// Login проверяет учетные данные. Для неизвестного пользователя и неверного
// пароля возвращается одна и та же ошибка ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	switch {
	case req.Username == "":
		return nil, invalid("username", "Please enter your username.")
	case req.Password == "":
		return nil, invalid("password", "Please enter your password.")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = s.hasher.Compare(s.dummyHash, req.Password)
			log.Printf("[AuthService] Попытка входа несуществующего пользователя: %s", req.Username)
			return nil, ErrInvalidCredentials
		}
		log.Errorf("[AuthService] Ошибка репозитория при поиске '%s': %v", req.Username, err)
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err = s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Printf("[AuthService] Неверный пароль для пользователя: %s", req.Username)
		return nil, ErrInvalidCredentials
	}

	log.Printf("[AuthService] Пользователь '%s' успешно аутентифицирован", req.Username)
	return user, nil
}

// Кастомные ошибки сервиса.
var (
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	ErrUsernameTaken      = errors.New("имя пользователя уже занято")
	ErrStoreUnavailable   = errors.New("хранилище недоступно")
)
