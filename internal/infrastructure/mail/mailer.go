package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer is the outbound email collaborator. The notification consumer is the
// only caller; delivery failures are logged, never retried here.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(addr, from, user, password string) *SMTPMailer {
	var auth smtp.Auth
	if user != "" || password != "" {
		auth = smtp.PlainAuth("", user, password, hostOf(addr))
	}
	return &SMTPMailer{addr: addr, from: from, auth: auth}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + body + "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		slog.Error("failed to send email", "smtp_addr", m.addr, "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

func hostOf(addr string) string {
	if i := strings.Index(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}
