package memory

import (
	"context"
	"strings"

	"github.com/magabrotheeeer/storefront/internal/apperr"
	"github.com/magabrotheeeer/storefront/internal/models"
	"github.com/magabrotheeeer/storefront/internal/storage"
)

const (
	msgUsernameTaken = "Username already taken"
	msgEmailInUse    = "Email already in use"
)

// CreateUser добавляет пользователя. Имя и почта уникальны без учёта регистра.
func (s *Storage) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	const op = "storage.memory.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByUsername(in.Username); ok {
		return nil, apperr.Conflict(msgUsernameTaken)
	}
	if _, ok := s.userByEmail(in.Email); ok {
		return nil, apperr.Conflict(msgEmailInUse)
	}

	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	u := models.User{
		ID:           s.id("users"),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		FullName:     in.FullName,
		Role:         role,
		IsVerified:   in.IsVerified,
		CreatedAt:    s.now(),
	}
	s.users[u.ID] = u
	return &u, nil
}

func (s *Storage) GetUser(ctx context.Context, id int) (*models.User, error) {
	const op = "storage.memory.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.GetUserByUsername"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.userByUsername(username)
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.userByEmail(email)
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	return &u, nil
}

// UpdateUser применяет непустые поля. Смена почты проверяется на уникальность.
func (s *Storage) UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.memory.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	if upd.Email != nil {
		if other, ok := s.userByEmail(*upd.Email); ok && other.ID != id {
			return nil, apperr.Conflict(msgEmailInUse)
		}
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	if upd.WalletAddress != nil {
		w := *upd.WalletAddress
		u.WalletAddress = &w
	}
	if upd.ProfileImage != nil {
		img := *upd.ProfileImage
		u.ProfileImage = &img
	}
	s.users[id] = u
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context, page models.Page) ([]models.User, int, error) {
	const op = "storage.memory.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.users)
	return storage.Paginate(all, page), len(all), nil
}

func (s *Storage) userByUsername(username string) (models.User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Storage) userByEmail(email string) (models.User, bool) {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}
