// Package email renders and delivers invitation and join-request mail.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
	// Domain completes bare usernames into addresses.
	Domain string
}

// Message is one email. It is also the payload of the email:send task.
type Message struct {
	Template   string   `json:"template,omitempty"` // metrics label only
	Subject    string   `json:"subject"`
	Sender     string   `json:"sender"`
	Recipients []string `json:"recipients"`
	HTML       string   `json:"html"`
}

// Service renders templates and talks SMTP.
type Service struct {
	config    *Config
	templates map[string]*template.Template
	// send is swapped in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.send = s.sendSMTP
	s.loadTemplates()
	return s
}

// Address turns a username into a mailbox on the configured domain.
func (s *Service) Address(username string) string {
	if strings.Contains(username, "@") || s.config.Domain == "" {
		return username
	}
	return username + "@" + s.config.Domain
}

// SenderHeader is the From header value.
func (s *Service) SenderHeader() string {
	if s.config.FromName == "" {
		return s.config.From
	}
	return fmt.Sprintf("%s <%s>", s.config.FromName, s.config.From)
}

// Render builds a Message from a named template.
func (s *Service) Render(name, subject string, to []string, data interface{}) (Message, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return Message{}, fmt.Errorf("template not found: %s", name)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("template execution error: %w", err)
	}
	return Message{
		Template:   name,
		Subject:    subject,
		Sender:     s.SenderHeader(),
		Recipients: to,
		HTML:       body.String(),
	}, nil
}

func (s *Service) build(m Message) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.Sender))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(m.Recipients, ", ")))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", m.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(m.HTML)
	return msg.Bytes()
}

// Send delivers one message. Without an SMTP host it logs and returns nil.
func (s *Service) Send(m Message) error {
	if len(m.Recipients) == 0 {
		return fmt.Errorf("no recipients")
	}
	if s.config.Host == "" {
		logger.Infof("[Email] SMTP not configured, skipping %q to %v", m.Subject, m.Recipients)
		return nil
	}
	if m.Sender == "" {
		m.Sender = s.SenderHeader()
	}

	var auth smtp.Auth
	if s.config.User != "" {
		auth = smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.send(addr, auth, s.config.From, m.Recipients, s.build(m))
}

func (s *Service) sendSMTP(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	if !s.config.UseTLS {
		return smtp.SendMail(addr, auth, from, to, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("TLS dial error: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client error: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("auth error: %w", err)
		}
	}
	if err = client.Mail(from); err != nil {
		return fmt.Errorf("mail error: %w", err)
	}
	for _, rcpt := range to {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt error: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data error: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}
	return client.Quit()
}
