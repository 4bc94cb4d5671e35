package models

import "time"

// ReportStatus — статус репорта. Переходы между статусами намеренно
// не ограничены: админ может перевести репорт из любого статуса в любой,
// включая возврат resolved обратно в investigating. Отметки о резолвере
// при этом не очищаются (sticky history).
type ReportStatus string

// Допустимые статусы репорта.
const (
	ReportStatusPending       ReportStatus = "pending"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
	ReportStatusRejected      ReportStatus = "rejected"
)

// Valid сообщает, является ли значение допустимым статусом.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInvestigating, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

// ReportType — тип проблемы, о которой сообщает пользователь.
type ReportType string

// Допустимые типы репорта.
const (
	ReportTypeLoginError     ReportType = "login_error"
	ReportTypePasswordError  ReportType = "password_error"
	ReportTypeAccountLocked  ReportType = "account_locked"
	ReportTypeGameNotWorking ReportType = "game_not_working"
	ReportTypeOther          ReportType = "other"
)

// Valid сообщает, является ли значение допустимым типом репорта.
func (t ReportType) Valid() bool {
	switch t {
	case ReportTypeLoginError, ReportTypePasswordError, ReportTypeAccountLocked,
		ReportTypeGameNotWorking, ReportTypeOther:
		return true
	}
	return false
}

// Report представляет репорт пользователя о проблеме с игрой.
// После создания репорт меняется только админом.
type Report struct {
	ID          int64        `json:"id"`
	GameID      int64        `json:"game_id"`
	UserID      int64        `json:"user_id"`
	ReportType  ReportType   `json:"report_type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      ReportStatus `json:"status"`
	AdminNotes  *string      `json:"admin_notes"`
	ResolvedBy  *int64       `json:"resolved_by"`
	ResolvedAt  *time.Time   `json:"resolved_at"`
	CreatedAt   time.Time    `json:"created_at"`

	// Данные из JOIN для списков.
	GameName      string  `json:"game_name,omitempty"`
	UserUsername  string  `json:"user_username,omitempty"`
	AdminUsername *string `json:"admin_username,omitempty"`
}

// DummyReport используется для приёма данных репорта из JSON-запроса.
type DummyReport struct {
	ReportType  string `json:"report_type" validate:"required"`
	Title       string `json:"title" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"required"`
}

// DummyReportUpdate используется для приёма обновления статуса репорта админом.
type DummyReportUpdate struct {
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"admin_notes"`
}

// ReportEvent — событие по репорту, публикуемое в RabbitMQ для сервиса
// уведомлений. EventID позволяет получателю отбрасывать дубликаты
// при повторной доставке.
type ReportEvent struct {
	EventID    string       `json:"event_id"`
	ReportID   int64        `json:"report_id"`
	Status     ReportStatus `json:"status"`
	GameName   string       `json:"game_name"`
	Username   string       `json:"username"`
	Email      string       `json:"email"`
	Title      string       `json:"title"`
	OccurredAt time.Time    `json:"occurred_at"`
}
