package models

import "time"

// Game представляет игру с общим аккаунтом. Поля Username и Password —
// общие учетные данные стороннего игрового аккаунта, чувствительные данные:
// наружу они уходят только внутри зашифрованного игрового токена.
type Game struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"image_url"`
	Username    string    `json:"-"`
	Password    string    `json:"-"`
	CategoryID  *int64    `json:"category_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Данные категории из LEFT JOIN, заполняются только в списках.
	CategoryName  *string `json:"category_name,omitempty"`
	CategoryColor *string `json:"category_color,omitempty"`
}

// GameListItem — проекция игры для пользовательского списка,
// без учетных данных аккаунта.
type GameListItem struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ImageURL      string  `json:"image_url"`
	CategoryName  *string `json:"category_name"`
	CategoryColor *string `json:"category_color"`
}

// DummyGame используется для приёма данных игры из JSON-запроса админки.
type DummyGame struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ImageURL    string `json:"image_url"`
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	CategoryID  *int64 `json:"category_id"`
	Description string `json:"description"`
}
