// Package models содержит доменные структуры витрины: пользователей, продукты,
// тарифные планы, крипто-транзакции, подписки и контент. Статусы и интервалы
// описаны закрытыми перечислениями с методом Valid.
package models

import "time"

// Role роль пользователя.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid сообщает, является ли роль допустимой.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет зарегистрированного пользователя витрины.
type User struct {
	ID            int       `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FullName      string    `json:"fullName"`
	Role          Role      `json:"role"`
	IsVerified    bool      `json:"isVerified"`
	WalletAddress *string   `json:"walletAddress"`
	ProfileImage  *string   `json:"profileImage"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsAdmin сообщает, есть ли у пользователя права администратора.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NewUser содержит данные для создания пользователя. Пароль уже захэширован.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsVerified   bool
}

// UserUpdate частичное обновление пользователя: nil-поля не меняются.
type UserUpdate struct {
	Email         *string
	FullName      *string
	PasswordHash  *string
	Role          *Role
	IsVerified    *bool
	WalletAddress *string
	ProfileImage  *string
}

// RegisterRequest тело запроса регистрации.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"omitempty,max=128"`
}

// LoginRequest тело запроса входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest тело запроса обновления профиля.
type ProfileUpdateRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,max=128"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// ChangePasswordRequest тело запроса смены пароля.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// WalletRequest тело запроса привязки кошелька.
type WalletRequest struct {
	WalletAddress string `json:"walletAddress" validate:"required"`
}

// RoleRequest тело запроса смены роли администратором.
type RoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=user admin"`
}

// Identity описывает аутентифицированного пользователя запроса.
type Identity struct {
	UserID   int
	Username string
	Role     Role
}

// IsAdmin сообщает, является ли вызывающий администратором.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
