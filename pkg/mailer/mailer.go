// Package mailer delivers the screening report over SMTP with the
// spreadsheet attached.
package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rotisserie/eris"
)

// Attachment is a binary file attached to a report mail.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound report mail.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Mailer sends report messages. Transport failures are returned as errors;
// callers fold them into a success flag and never block the ranked results.
type Mailer interface {
	SendReport(ctx context.Context, msg Message) error
}

// Config holds SMTP transport settings.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// Configured reports whether the transport has enough settings to send.
func (c Config) Configured() bool {
	return c.Host != "" && c.From != ""
}

type smtpMailer struct {
	cfg  Config
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New creates an SMTP-backed Mailer.
func New(cfg Config) Mailer {
	return &smtpMailer{cfg: cfg, send: smtp.SendMail}
}

func (m *smtpMailer) SendReport(ctx context.Context, msg Message) error {
	if !m.cfg.Configured() {
		return eris.New("mailer: transport not configured")
	}
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "mailer: context done")
	}

	raw, err := BuildMIME(m.cfg.From, msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, raw); err != nil {
		return eris.Wrap(err, "mailer: send report")
	}
	return nil
}

// BuildMIME assembles the multipart message: HTML body plus an optional
// base64 spreadsheet attachment.
func BuildMIME(from string, msg Message) ([]byte, error) {
	if msg.To == "" {
		return nil, eris.New("mailer: missing recipient")
	}

	const boundary = "screen-cli-report-boundary"
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")

	if msg.Attachment != nil {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: application/vnd.openxmlformats-officedocument.spreadsheetml.sheet\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", msg.Attachment.Filename)

		encoded := base64.StdEncoding.EncodeToString(msg.Attachment.Content)
		// Wrap base64 at 76 columns per RFC 2045.
		for len(encoded) > 76 {
			b.WriteString(encoded[:76])
			b.WriteString("\r\n")
			encoded = encoded[76:]
		}
		b.WriteString(encoded)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String()), nil
}
