// Package notify is the outbound email boundary. Delivery is best-effort:
// callers log failures and never let them affect the database transaction
// that triggered the notification.
package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/forma-studio/forma-portal/internal/config"
)

// Message is one outbound email. HTML body, UTF-8.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer sends messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or a logging no-op when SMTP is not
// configured (local development).
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		log.Println("SMTP not configured, outgoing email disabled")
		return NopMailer{}
	}
	return &SMTPMailer{
		host:    cfg.SMTPHost,
		port:    cfg.SMTPPort,
		user:    cfg.SMTPUser,
		pass:    cfg.SMTPPass,
		from:    cfg.SMTPFrom,
		useTLS:  cfg.SMTPSecure,
		timeout: 30 * time.Second,
	}
}

// NopMailer logs skipped messages and succeeds.
type NopMailer struct{}

func (NopMailer) Send(_ context.Context, msg Message) error {
	log.Printf("[email:skipped] %s", msg.Subject)
	return nil
}

// SMTPMailer delivers via a single SMTP host.
type SMTPMailer struct {
	host    string
	port    string
	user    string
	pass    string
	from    string
	useTLS  bool
	timeout time.Duration
}

// Send delivers msg to all recipients in one SMTP session.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	recipients := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		if strings.TrimSpace(to) != "" {
			recipients = append(recipients, strings.TrimSpace(to))
		}
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	addr := net.JoinHostPort(m.host, m.port)
	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if m.user != "" && m.pass != "" {
		auth := smtp.PlainAuth("", m.user, m.pass, m.host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(m.buildMessage(recipients, msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

func (m *SMTPMailer) buildMessage(recipients []string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + m.from + "\r\n")
	b.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	b.WriteString("Subject: " + encodeHeader(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// encodeHeader RFC 2047-encodes a header value when it contains non-ASCII
// characters (Persian subjects).
func encodeHeader(s string) string {
	ascii := true
	for _, r := range s {
		if r > 127 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}
	return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(s)))
}
