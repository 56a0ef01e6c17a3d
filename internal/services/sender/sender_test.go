package sender

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

type ClientMock struct {
	mock.Mock
	data bytes.Buffer
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Quit() error            { return m.Called().Error(0) }
func (m *ClientMock) Close() error           { return m.Called().Error(0) }

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return &nopWriteCloser{&m.data}, nil
}

type nopWriteCloser struct{ *bytes.Buffer }

func (n *nopWriteCloser) Close() error { return nil }

type TransportMock struct {
	mock.Mock
	client smtp.Client
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return m.client, nil
}

func (m *TransportMock) From() string { return "noreply@fitcoach.example" }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func noticeBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.ExpiryNotice{
		UserUID:          "uid-1",
		Email:            "user@example.com",
		DisplayName:      "Иван",
		SubscriptionType: "monthly",
		EndDate:          time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestService_SendExpiryNotice(t *testing.T) {
	t.Run("письмо отправляется", func(t *testing.T) {
		client := new(ClientMock)
		client.On("Mail", "noreply@fitcoach.example").Return(nil).Once()
		client.On("Rcpt", "user@example.com").Return(nil).Once()
		client.On("Data").Return(&nopWriteCloser{}, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		transport := &TransportMock{client: client}
		transport.On("Connect").Return(client, nil).Once()

		svc := New(transport, newNoopLogger())
		require.NoError(t, svc.SendExpiryNotice(noticeBody(t)))

		sent := client.data.String()
		assert.Contains(t, sent, "To: user@example.com")
		assert.Contains(t, sent, "Иван")
		assert.Contains(t, sent, "01.07.2025")

		client.AssertExpectations(t)
	})

	t.Run("нечитаемое сообщение очереди", func(t *testing.T) {
		transport := &TransportMock{}
		svc := New(transport, newNoopLogger())

		err := svc.SendExpiryNotice([]byte("{broken"))
		require.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("ошибка подключения к SMTP", func(t *testing.T) {
		transport := &TransportMock{}
		transport.On("Connect").Return(nil, errors.New("dial failed")).Once()

		svc := New(transport, newNoopLogger())
		err := svc.SendExpiryNotice(noticeBody(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dial failed")
	})
}
