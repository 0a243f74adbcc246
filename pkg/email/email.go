// Package email sends HTML mail over SMTP with gomail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Message is a single HTML email.
type Message struct {
	To       string
	From     string
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Config holds SMTP settings, passed in from app config.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers messages over SMTP.
type Sender struct {
	host      string
	from      string
	transport func(m *gomail.Message) error
}

// NewSender dials cfg.Host for every message.
func NewSender(cfg Config) *Sender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Sender{
		host:      cfg.Host,
		from:      cfg.From,
		transport: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}
}

// NewSenderWith delivers through an arbitrary gomail.Sender, e.g. a gomail.SendFunc in tests.
func NewSenderWith(from string, s gomail.Sender) *Sender {
	return &Sender{
		host:      "custom",
		from:      from,
		transport: func(m *gomail.Message) error { return gomail.Send(s, m) },
	}
}

// IsConfigured reports whether an SMTP host was supplied.
func (s *Sender) IsConfigured() bool {
	return s.host != ""
}

// DefaultFrom is the configured sender address.
func (s *Sender) DefaultFrom() string {
	return s.from
}

// Send delivers msg. An empty msg.From falls back to the configured sender.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.IsConfigured() {
		return fmt.Errorf("smtp is not configured")
	}

	from := msg.From
	if from == "" {
		from = s.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if err := s.transport(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2563eb; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #9333ea; margin-top: 10px; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Form Submission</h1>
        </div>
        <div class="content">
            <p><span class="label">Name:</span> {{.SenderName}}</p>
            <p><span class="label">Email:</span> {{.SenderEmail}}</p>
            {{if .Subject}}<p><span class="label">Subject:</span> {{.Subject}}</p>{{end}}
            <p class="label">Message:</p>
            <div class="message-box">{{.Message}}</div>
        </div>
    </div>
</body>
</html>`))

// RenderContact builds the subject line and escaped HTML body for a contact submission.
func RenderContact(data ContactEmailData) (string, string, error) {
	var body bytes.Buffer
	if err := contactTemplate.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return "New Contact Form Submission from " + data.SenderName, body.String(), nil
}
