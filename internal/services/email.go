package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/taskhub-dev/taskhub/internal/config"
	"github.com/taskhub-dev/taskhub/pkg/logger"
)

// EmailService delivers notification emails through the configured SMTP
// relay. When SMTP is disabled every send is a silent no-op.
type EmailService struct {
	cfg *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled reports whether outbound email is configured.
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled && s.cfg.Host != ""
}

// Send delivers one HTML email. Returns nil without sending when email is
// not configured.
func (s *EmailService) Send(to []string, subject, body string) error {
	if !s.Enabled() || len(to) == 0 {
		return nil
	}

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	headers := map[string]string{
		"From":         from,
		"To":           strings.Join(to, ","),
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var auth smtp.Auth
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	var err error
	if s.cfg.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Errorf("[Email] failed to send to %v: %v", to, err)
		return err
	}

	logger.Infof("[Email] sent notification to %v", to)
	return nil
}

// NotificationBody renders the HTML body for a notification email.
func NotificationBody(title, message, link string) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>", title))
	sb.WriteString(fmt.Sprintf("<p style=\"background: #f5f5f5; padding: 12px; border-radius: 4px;\">%s</p>", message))
	if link != "" {
		sb.WriteString(fmt.Sprintf("<p><a href=\"%s\">Open in TaskHub</a></p>", link))
	}
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">Powered by TaskHub</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	return w.Close()
}
