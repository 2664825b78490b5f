package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPSender sends multipart/alternative mail through an SMTP relay.
type SMTPSender struct {
	dialer     *gomail.Dialer
	host       string
	from       string
	senderName string
	logger     *zap.Logger

	send func(m *gomail.Message) error
}

func NewSMTPSender(host string, port int, username, password, fromEmail, senderName string, logger *zap.Logger) *SMTPSender {
	s := &SMTPSender{
		dialer:     gomail.NewDialer(host, port, username, password),
		host:       host,
		from:       fromEmail,
		senderName: senderName,
		logger:     logger.Named("SMTPSender"),
	}
	s.send = func(m *gomail.Message) error { return s.dialer.DialAndSend(m) }
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To.Email == "" {
		return fmt.Errorf("no recipient provided for email")
	}
	m := s.newMessage(msg)

	done := make(chan error, 1)
	go func() {
		done <- s.send(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled or timed out",
			zap.String("toEmail", msg.To.Email),
			zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email via SMTP",
				zap.Error(err),
				zap.String("toEmail", msg.To.Email),
				zap.String("smtpHost", s.host))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	return nil
}

// newMessage builds the message. Names and subject go through gomail's
// header encoding, so CR and LF never reach the wire unencoded.
func (s *SMTPSender) newMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.senderName)
	m.SetAddressHeader("To", msg.To.Email, msg.To.Name)
	m.SetHeader("Subject", msg.Subject)

	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}
