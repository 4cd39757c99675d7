// Package mail forwards contact messages to the site owner's inbox
package mail

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/nibin-org/portfolio/internal/config"
	"github.com/nibin-org/portfolio/internal/store"
)

// ErrSMTPNotConfigured means no credentials were provided. The message is
// still stored.
var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

// Mailer sends contact messages over SMTP
type Mailer struct {
	cfg  config.MailConfig
	send func(...*gomail.Message) error
}

// New dials the configured SMTP server for every message
func New(cfg config.MailConfig) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &Mailer{cfg: cfg, send: d.DialAndSend}
}

// NewWithSender delivers through s, for tests and alternative transports
func NewWithSender(cfg config.MailConfig, s gomail.Sender) *Mailer {
	return &Mailer{cfg: cfg, send: func(m ...*gomail.Message) error { return gomail.Send(s, m...) }}
}

// Configured reports whether Send can work at all
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// Compose builds the notification for msg. Replies go to the visitor.
func (m *Mailer) Compose(msg store.Message) *gomail.Message {
	g := gomail.NewMessage()
	g.SetHeader("From", m.cfg.User)
	g.SetHeader("To", m.cfg.To)
	g.SetAddressHeader("Reply-To", msg.Email, msg.Name)
	g.SetHeader("Subject", fmt.Sprintf("Portfolio Contact: %s", msg.Name))
	g.SetBody("text/plain", fmt.Sprintf(`New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Message %s
`, msg.Name, msg.Email, msg.Body, msg.ID))
	return g
}

// Send delivers msg to the configured inbox
func (m *Mailer) Send(msg store.Message) error {
	if !m.Configured() {
		return ErrSMTPNotConfigured
	}
	if err := m.send(m.Compose(msg)); err != nil {
		return errors.Wrapf(err, "send message %s", msg.ID)
	}
	return nil
}
