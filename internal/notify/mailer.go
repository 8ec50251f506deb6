// AngelaMos | 2026
// mailer.go

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/acadmix/server/internal/config"
)

type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer is the delivery contract. Registration dispatches best-effort in a
// goroutine; the reset/resend flows await Send and surface its error.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func NewMailer(cfg config.MailConfig) Mailer {
	if !cfg.Enabled {
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)

	err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, []byte(b.String()))
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	return nil
}

// LogMailer stands in for SMTP in development: it logs the message instead
// of delivering it.
type LogMailer struct{}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("mail (delivery disabled)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
