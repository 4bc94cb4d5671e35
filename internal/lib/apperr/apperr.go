// Package apperr определяет доменные ошибки сервиса. Сервисы и хранилище
// возвращают эти ошибки (обёрнутыми через %w), а HTTP-обработчики
// транслируют их в статусы ответов через errors.Is, не раскрывая
// внутренних деталей.
package apperr

import "errors"

var (
	// ErrNotFound — запрошенная сущность отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrConflict — операция нарушает ссылочную целостность
	// (например, удаление категории, на которую ссылаются игры).
	ErrConflict = errors.New("conflict")
	// ErrExists — сущность с такими уникальными полями уже существует.
	ErrExists = errors.New("already exists")
	// ErrInvalidCredentials — неизвестный пользователь или неверный пароль.
	// Эти два случая наружу не различаются.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSubscriptionExpired — пользователь аутентифицирован, но подписка
	// истекла или учетная запись деактивирована.
	ErrSubscriptionExpired = errors.New("subscription expired")
)
