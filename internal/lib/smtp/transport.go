package smtp

import (
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/config"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

const dialTimeout = 10 * time.Second

// Transport держит параметры SMTP-сервера и открывает авторизованные
// соединения для отправки уведомлений.
type Transport struct {
	host string
	addr string
	from string
	pass string
	log  *slog.Logger
}

// NewTransport извлекает параметры SMTP из конфигурации приложения.
// Адрес отправителя совпадает с учётной записью.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	return &Transport{
		host: cfg.SMTPHost,
		addr: net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		log:  log,
	}
}

// From возвращает адрес отправителя писем.
func (t *Transport) From() string {
	return t.from
}

// Connect открывает соединение с сервером, переводит его в TLS через
// STARTTLS и авторизуется. Сервер без STARTTLS считается ошибкой
// конфигурации: учётные данные по открытому каналу не передаются.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Connect"

	conn, err := net.DialTimeout("tcp", t.addr, dialTimeout)
	if err != nil {
		t.log.Error("failed to dial smtp server", slog.String("addr", t.addr), sl.Err(err))
		return nil, fmt.Errorf("%s: dial %s: %w", op, t.addr, err)
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		_ = conn.Close()
		t.log.Error("smtp handshake failed", sl.Err(err))
		return nil, fmt.Errorf("%s: handshake: %w", op, err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return nil, t.fail(client, fmt.Errorf("%s: server does not support STARTTLS", op))
	}
	tlsConfig := &tls.Config{
		ServerName: t.host,
		MinVersion: tls.VersionTLS12,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return nil, t.fail(client, fmt.Errorf("%s: starttls: %w", op, err))
	}

	auth := smtp.PlainAuth("", t.from, t.pass, t.host)
	if err := client.Auth(auth); err != nil {
		return nil, t.fail(client, fmt.Errorf("%s: auth: %w", op, err))
	}

	return &clientWrapper{c: client}, nil
}

// fail закрывает недонастроенный клиент и возвращает исходную ошибку.
func (t *Transport) fail(client *smtp.Client, err error) error {
	t.log.Error("smtp connection failed", sl.Err(err))
	if closeErr := client.Close(); closeErr != nil {
		t.log.Warn("failed to close smtp client", sl.Err(closeErr))
	}
	return err
}

// clientWrapper адаптирует *smtp.Client к интерфейсу Client.
type clientWrapper struct {
	c *smtp.Client
}

func (w *clientWrapper) Mail(from string) error        { return w.c.Mail(from) }
func (w *clientWrapper) Rcpt(to string) error          { return w.c.Rcpt(to) }
func (w *clientWrapper) Data() (io.WriteCloser, error) { return w.c.Data() }
func (w *clientWrapper) Quit() error                   { return w.c.Quit() }
func (w *clientWrapper) Close() error                  { return w.c.Close() }
