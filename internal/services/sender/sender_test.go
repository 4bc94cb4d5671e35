package sender

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poorboygaming/gshare/internal/lib/smtp"
	"github.com/poorboygaming/gshare/internal/models"
)

type ClientMock struct{ mock.Mock }

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type TransportMock struct{ mock.Mock }

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}
func (m *TransportMock) GetSMTPUser() string { return m.Called().String(0) }

type writeCloserBuffer struct{ bytes.Buffer }

func (w *writeCloserBuffer) Close() error { return nil }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func eventBody(t *testing.T, eventID string) []byte {
	t.Helper()
	body, err := json.Marshal(models.ReportEvent{
		EventID:  eventID,
		ReportID: 5,
		Status:   models.ReportStatusPending,
		GameName: "Cyberpunk 2077",
		Username: "player1",
		Email:    "p1@example.com",
		Title:    "Не могу войти",
	})
	require.NoError(t, err)
	return body
}

func newConnectedTransport(buf *writeCloserBuffer) *TransportMock {
	client := new(ClientMock)
	client.On("Mail", "noreply@example.com").Return(nil)
	client.On("Rcpt", "p1@example.com").Return(nil)
	client.On("Data").Return(buf, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	transport := new(TransportMock)
	transport.On("Connect").Return(client, nil)
	transport.On("GetSMTPUser").Return("noreply@example.com")
	return transport
}

func TestSenderService_SendReportCreated(t *testing.T) {
	t.Run("Письмо содержит данные репорта", func(t *testing.T) {
		buf := &writeCloserBuffer{}
		transport := newConnectedTransport(buf)

		service := New(newNoopLogger(), transport)
		err := service.SendReportCreated(eventBody(t, "event-1"))
		require.NoError(t, err)

		msg := buf.String()
		assert.Contains(t, msg, "To: p1@example.com")
		assert.Contains(t, msg, "player1")
		assert.Contains(t, msg, "Cyberpunk 2077")
		assert.Contains(t, msg, "Не могу войти")
	})

	t.Run("Невалидное тело сообщения отбрасывается без переотправки", func(t *testing.T) {
		transport := new(TransportMock)
		service := New(newNoopLogger(), transport)
		err := service.SendReportCreated([]byte("not json"))
		assert.NoError(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("Дубликат события отбрасывается без письма", func(t *testing.T) {
		buf := &writeCloserBuffer{}
		transport := newConnectedTransport(buf)

		service := New(newNoopLogger(), transport)
		require.NoError(t, service.SendReportCreated(eventBody(t, "event-dup")))
		require.NoError(t, service.SendReportCreated(eventBody(t, "event-dup")))

		transport.AssertNumberOfCalls(t, "Connect", 1)
	})
}

func TestSenderService_SendReportResolved(t *testing.T) {
	buf := &writeCloserBuffer{}
	transport := newConnectedTransport(buf)

	service := New(newNoopLogger(), transport)
	err := service.SendReportResolved(eventBody(t, "event-2"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "устранена")
}
