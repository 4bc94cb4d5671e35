// Package entitlement отвечает на один вопрос: имеет ли пользователь
// право на доступ к играм прямо сейчас. Все точки принятия решения
// (логин, выдача токена, middleware) используют этот пакет, чтобы
// правило нигде не расходилось.
package entitlement

import (
	"time"

	"github.com/poorboygaming/gshare/internal/models"
)

// Evaluator вычисляет право доступа по записи пользователя.
// Часы инжектируются для тестов.
type Evaluator struct {
	now func() time.Time
}

// New создаёт Evaluator с системными часами.
func New() *Evaluator {
	return &Evaluator{now: time.Now}
}

// NewWithClock создаёт Evaluator с переданными часами.
func NewWithClock(now func() time.Time) *Evaluator {
	return &Evaluator{now: now}
}

// IsEntitled сообщает, имеет ли пользователь право доступа.
// Админ имеет доступ всегда. Обычный пользователь должен быть активен,
// а его подписка либо бессрочна (NULL), либо ещё не истекла. Дата
// истечения, равная текущему моменту, считается истёкшей.
func (e *Evaluator) IsEntitled(user *models.User) bool {
	if user.Role == models.RoleAdmin {
		return true
	}
	if !user.IsActive {
		return false
	}
	if user.SubscriptionExpiry == nil {
		return true
	}
	return user.SubscriptionExpiry.After(e.now())
}
