// Package sender содержит логику сервиса уведомлений: письма
// пользователям по событиям репортов из RabbitMQ. Повторно
// доставленные события отбрасываются по EventID.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poorboygaming/gshare/internal/lib/sl"
	"github.com/poorboygaming/gshare/internal/lib/smtp"
	"github.com/poorboygaming/gshare/internal/models"
)

// seenLimit ограничивает размер набора обработанных EventID.
const seenLimit = 10000

// SenderService отправляет письма по событиям репортов.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// New создает новый экземпляр SenderService.
func New(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
		seen:      make(map[string]struct{}),
	}
}

// SendReportCreated отправляет пользователю подтверждение о принятом репорте.
func (s *SenderService) SendReportCreated(body []byte) error {
	event, err := s.decode(body)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}

	subject := "Ваш репорт принят"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nМы получили ваш репорт «%s» по игре %s и уже разбираемся.\n\nО результате сообщим отдельным письмом.",
		event.Username, event.Title, event.GameName)
	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

// SendReportResolved отправляет пользователю уведомление о решённом репорте.
func (s *SenderService) SendReportResolved(body []byte) error {
	event, err := s.decode(body)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}

	subject := "Ваш репорт решён"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nПроблема из вашего репорта «%s» по игре %s устранена.\n\nЕсли проблема повторится, создайте новый репорт.",
		event.Username, event.Title, event.GameName)
	return s.sendEmail([]string{event.Email}, subject, bodyText)
}

// decode разбирает событие и отбрасывает дубликаты. Возвращает nil без
// ошибки, если событие уже обрабатывалось или тело не разбирается:
// повторная доставка такому сообщению не поможет, и ошибка из обработчика
// вернула бы его в очередь навсегда.
func (s *SenderService) decode(body []byte) (*models.ReportEvent, error) {
	var event models.ReportEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body, dropping message", sl.Err(err))
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[event.EventID]; ok {
		s.log.Info("duplicate report event skipped",
			slog.String("event_id", event.EventID),
			slog.Int64("report_id", event.ReportID))
		return nil, nil
	}
	if len(s.seen) >= seenLimit {
		s.seen = make(map[string]struct{})
	}
	s.seen[event.EventID] = struct{}{}
	return &event, nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent succes", slog.String("subject", subject))
	return nil
}
