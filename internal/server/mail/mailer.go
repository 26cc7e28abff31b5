// Package mail delivers sign-in codes over SMTP, with a development
// fallback that logs the code instead of sending it.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/dmitrijs2005/obslog/internal/common"
	"github.com/dmitrijs2005/obslog/internal/logging"
	"github.com/dmitrijs2005/obslog/internal/server/config"
)

// Transport names reported in the request-code response.
const (
	TransportSMTP        = "smtp"
	TransportDevFallback = "dev-fallback"
)

// Delivery reports how a code left the system. Delivered is false for the
// dev fallback, so the caller can surface the code for manual entry.
type Delivery struct {
	Delivered bool
	Transport string
}

// Mailer sends a sign-in code to an address.
type Mailer interface {
	SendCode(ctx context.Context, to, code string, expiresAt time.Time) (Delivery, error)
}

// sendMailFunc matches smtp.SendMail and is swapped out in tests.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends codes through a plain SMTP relay. When the relay is not
// configured it either falls back to logging the code (dev mode) or fails
// with common.ErrMailDelivery.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
	devMode  bool
	log      logging.Logger
	send     sendMailFunc
}

func NewSMTPMailer(cfg *config.Config, log logging.Logger) *SMTPMailer {
	port := cfg.SMTPPort
	if port == "" {
		port = "587"
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     port,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPFrom,
		devMode:  cfg.DevMode,
		log:      log,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) configured() bool {
	return m.host != "" && m.user != "" && m.password != "" && m.from != ""
}

func (m *SMTPMailer) SendCode(ctx context.Context, to, code string, expiresAt time.Time) (Delivery, error) {
	if !m.configured() {
		if !m.devMode {
			return Delivery{}, common.NewMailDeliveryError("SMTP is not configured")
		}
		m.log.Info(ctx, "auth code (dev fallback)", "to", to, "code", code, "expiresAt", expiresAt)
		return Delivery{Delivered: false, Transport: TransportDevFallback}, nil
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Observation Log: Sign-in code\r\n\r\nYour sign-in code is %s. It expires at %s.\r\n",
		m.from, to, code, expiresAt.Format(time.RFC3339)))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := m.send(m.host+":"+m.port, auth, m.from, []string{to}, msg); err != nil {
		return Delivery{}, common.NewMailDeliveryError(err.Error())
	}

	return Delivery{Delivered: true, Transport: TransportSMTP}, nil
}
