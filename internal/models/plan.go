package models

import "time"

// Plan представляет тарифный план подписки. Используется только при
// регистрации для вычисления даты истечения подписки; после этого
// пользователь на план не ссылается.
type Plan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DurationDays int       `json:"duration_days"` // Длительность подписки в днях (>0)
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyPlan используется для приёма данных плана из JSON-запроса.
type DummyPlan struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	DurationDays int     `json:"duration_days" validate:"required,gt=0"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Currency     string  `json:"currency"`
	IsActive     *bool   `json:"is_active"`
}
