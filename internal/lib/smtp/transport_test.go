package smtp

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/fitcoach-backend/internal/config"
)

func TestNewTransport(t *testing.T) {
	cfg := &config.Config{
		SMTPConnection: config.SMTPConnection{
			SMTPHost: "smtp.example.com",
			SMTPPort: "587",
			SMTPUser: "noreply@fitcoach.example",
			SMTPPass: "secret",
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	transport := NewTransport(cfg, log)

	assert.Equal(t, "noreply@fitcoach.example", transport.From())
	assert.Equal(t, "smtp.example.com:587", transport.addr)
	assert.Equal(t, "smtp.example.com", transport.host)
}
