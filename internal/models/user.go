// Package models содержит доменные структуры сервиса: пользователей,
// тарифные планы, игры, категории и репорты. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                 int64      // Уникальный идентификатор пользователя
	Username           string     // Имя пользователя (уникальное)
	Email              string     // Электронная почта (уникальная)
	PasswordHash       string     // Хэш пароля пользователя
	Role               string     // Роль пользователя, admin или user
	SubscriptionExpiry *time.Time // Дата истечения подписки, nil — бессрочный доступ
	IsActive           bool       // Признак активности учетной записи
	CreatedAt          time.Time  // Дата создания учетной записи
}

// RoleAdmin и RoleUser — допустимые роли пользователя.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// PublicUser — публичная проекция пользователя без хэша пароля,
// отдается клиенту при логине и в админских списках.
type PublicUser struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	SubscriptionExpiry *time.Time `json:"subscription_expiry"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Public возвращает публичную проекцию пользователя.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		Role:               u.Role,
		SubscriptionExpiry: u.SubscriptionExpiry,
		IsActive:           u.IsActive,
		CreatedAt:          u.CreatedAt,
	}
}
