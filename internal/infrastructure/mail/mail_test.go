package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"net/smtp"
	"testing"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct {
	mail *email.Email
	addr string
	tls  *tls.Config
}

func newTestMailer(err error) (*Mailer, *[]sent) {
	var out []sent
	m := New(Config{
		Host:     "smtp.example.com",
		Port:     465,
		From:     "rink-rat@example.com",
		To:       []string{"rink-rat@example.com"},
		Password: "app-password",
	}, zap.NewNop())
	m.send = func(e *email.Email, addr string, _ smtp.Auth, tlsCfg *tls.Config) error {
		out = append(out, sent{mail: e, addr: addr, tls: tlsCfg})
		return err
	}
	return m, &out
}

func TestNotifyEmptyReportSendsNothing(t *testing.T) {
	m, out := newTestMailer(nil)
	require.NoError(t, m.Notify(context.Background(), availability.Report{Label: "Weekend"}))
	require.Empty(t, *out)
}

func TestNotifyListsEveryDate(t *testing.T) {
	m, out := newTestMailer(nil)
	r := availability.NewReport("Weekend", []availability.Result{
		{Date: "2025-01-11", Available: true, Link: "https://anc.example.com/search?d=11"},
		{Date: "2025-01-05", Available: true, Link: "https://anc.example.com/search?d=05"},
		{Date: "2025-01-12", Available: false, Link: "https://anc.example.com/search?d=12"},
	})
	require.NoError(t, m.Notify(context.Background(), r))
	require.Len(t, *out, 1)

	got := (*out)[0]
	require.Equal(t, "smtp.example.com:465", got.addr)
	require.Equal(t, "smtp.example.com", got.tls.ServerName)
	require.Equal(t, "🏒 Ice Available - Weekend", got.mail.Subject)
	require.Equal(t, "Ice available for Weekend:\n\n"+
		"2025-01-05: https://anc.example.com/search?d=05\n"+
		"2025-01-11: https://anc.example.com/search?d=11\n", string(got.mail.Text))
	require.Empty(t, got.mail.HTML)
}

func TestNotifySendError(t *testing.T) {
	m, _ := newTestMailer(errors.New("535 bad credentials"))
	r := availability.NewReport("Weekend", []availability.Result{{Date: "2025-01-05", Available: true, Link: "x"}})
	require.ErrorContains(t, m.Notify(context.Background(), r), "535 bad credentials")
}
