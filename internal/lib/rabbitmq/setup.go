package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Имена обменника, очередей и ключей маршрутизации событий репортов.
const (
	ReportsExchange     = "reports"
	QueueReportCreated  = "reports.created"
	QueueReportResolved = "reports.resolved"
	KeyReportCreated    = "created"
	KeyReportResolved   = "resolved"
)

// SetupChannel открывает канал и объявляет обменник и очереди событий репортов.
func SetupChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	err = ch.ExchangeDeclare(
		ReportsExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for queue, key := range map[string]string{
		QueueReportCreated:  KeyReportCreated,
		QueueReportResolved: KeyReportResolved,
	} {
		_, err = ch.QueueDeclare(
			queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = ch.QueueBind(queue, key, ReportsExchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ch, nil
}
