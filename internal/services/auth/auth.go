// Package auth содержит логику регистрации, входа и управления учётными записями.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/cache"
	"github.com/magabrotheeeer/storefront/internal/lib/password"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/services/notifier"
)

const msgBadCredentials = "Incorrect username or password"

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя. Занятые имя или email дают конфликт.
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени без учёта регистра.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// UpdateUser применяет частичное обновление.
	UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error)
	// ListUsers возвращает страницу пользователей и их общее число.
	ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error)
}

// TokenMaker выпускает токены доступа.
type TokenMaker interface {
	GenerateToken(id models.Identity) (string, error)
}

// Notifier отправляет письма по шаблонам.
type Notifier interface {
	Notify(ctx context.Context, templateName, to string, vars map[string]string) error
}

// Cache сбрасывает закэшированные значения.
type Cache interface {
	Invalidate(ctx context.Context, keys ...string) error
}

// Service отвечает за регистрацию, вход и профиль пользователя.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	tokens   TokenMaker
	notifier Notifier
	cache    Cache
}

// New создаёт Service.
func New(log *slog.Logger, users UserRepository, tokens TokenMaker, notifier Notifier, cache Cache) *Service {
	return &Service{
		log:      log,
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		cache:    cache,
	}
}

// Register создаёт пользователя с ролью user и возвращает его вместе с токеном.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	const op = "auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.NewUser{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hashed,
		FullName:     req.FullName,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.Int("id", user.ID), slog.String("username", user.Username))
	if err := s.cache.Invalidate(ctx, cache.KeyStats); err != nil {
		s.log.Warn("failed to invalidate stats cache", sl.Err(err))
	}
	if err := s.notifier.Notify(ctx, notifier.TemplateWelcome, user.Email, map[string]string{"username": user.Username}); err != nil {
		s.log.Warn("failed to send welcome email", sl.Err(err))
	}
	return user, token, nil
}

// Login проверяет пароль и выпускает токен. Неизвестное имя и неверный
// пароль дают одинаковую ошибку.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, "", apperr.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Error("failed to compare password hash", slog.Int("id", user.ID), sl.Err(err))
		}
		return nil, "", apperr.Unauthorized(msgBadCredentials)
	}
	token, err := s.issue(user)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

func (s *Service) issue(user *models.User) (string, error) {
	return s.tokens.GenerateToken(models.Identity{UserID: user.ID, Username: user.Username, Role: user.Role})
}

// Me возвращает пользователя по ID.
func (s *Service) Me(ctx context.Context, id int) (*models.User, error) {
	const op = "auth.Me"
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile меняет имя и email. Email остаётся уникальным.
func (s *Service) UpdateProfile(ctx context.Context, id int, req models.ProfileUpdateRequest) (*models.User, error) {
	const op = "auth.UpdateProfile"
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}
	user, err := s.users.UpdateUser(ctx, id, models.UserUpdate{FullName: req.FullName, Email: req.Email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword меняет пароль после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, id int, req models.ChangePasswordRequest) error {
	const op = "auth.ChangePassword"
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.CurrentPassword); err != nil {
		return apperr.Unauthorized("Current password is incorrect")
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.users.UpdateUser(ctx, id, models.UserUpdate{PasswordHash: &hashed}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("password changed", slog.Int("id", id))
	return nil
}

// UpdateWallet привязывает адрес кошелька. Формат адреса не проверяется.
func (s *Service) UpdateWallet(ctx context.Context, id int, address string) (*models.User, error) {
	const op = "auth.UpdateWallet"
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, apperr.Validation("Wallet address is required")
	}
	user, err := s.users.UpdateUser(ctx, id, models.UserUpdate{WalletAddress: &address})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ListUsers возвращает страницу пользователей.
func (s *Service) ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error) {
	const op = "auth.ListUsers"
	users, total, err := s.users.ListUsers(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}

// SetRole меняет роль пользователя.
func (s *Service) SetRole(ctx context.Context, id int, role models.Role) (*models.User, error) {
	const op = "auth.SetRole"
	if !role.Valid() {
		return nil, apperr.Validation("Unknown role")
	}
	user, err := s.users.UpdateUser(ctx, id, models.UserUpdate{Role: &role})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user role changed", slog.Int("id", id), slog.String("role", string(role)))
	return user, nil
}
