package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

type Config struct {
	Host     string
	Port     int
	From     string
	To       []string
	Password string
}

type sendFunc func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error

// Mailer sends reports as plain-text mail over implicit TLS (SMTPS).
type Mailer struct {
	cfg  Config
	log  *zap.Logger
	send sendFunc
}

func New(cfg Config, log *zap.Logger) *Mailer {
	return &Mailer{
		cfg: cfg,
		log: log.Named("mail"),
		send: func(e *email.Email, addr string, auth smtp.Auth, tlsCfg *tls.Config) error {
			return e.SendWithTLS(addr, auth, tlsCfg)
		},
	}
}

func (m *Mailer) Compose(r availability.Report) *email.Email {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = m.cfg.To
	e.Subject = r.Subject()
	e.Text = []byte(r.Body())
	return e
}

// Notify mails r. An empty report sends nothing.
func (m *Mailer) Notify(ctx context.Context, r availability.Report) error {
	if r.Empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.Compose(r), addr, auth, &tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	m.log.Info("report sent", zap.String("label", r.Label), zap.Strings("to", m.cfg.To), zap.Int("dates", len(r.Results)))
	return nil
}
