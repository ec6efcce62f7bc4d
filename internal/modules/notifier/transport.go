package notifier

import (
	"fmt"
	"net/smtp"
	"strings"

	"guesthouse/internal/config"
)

// Transport delivers one rendered message to one recipient.
type Transport interface {
	Name() string
	Send(to, subject, body string) error
}

// SMTPTransport sends over a single SMTP account with PLAIN auth.
type SMTPTransport struct {
	cfg config.SMTPConfig
}

func NewSMTPTransport(cfg config.SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) Name() string {
	return fmt.Sprintf("smtp:%s:%d", t.cfg.Host, t.cfg.Port)
}

func (t *SMTPTransport) Configured() bool {
	return t.cfg.Host != ""
}

func (t *SMTPTransport) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)

	msg := buildMessage(t.cfg.From, to, subject, body)
	if err := smtp.SendMail(addr, auth, t.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send via %s failed: %w", addr, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
