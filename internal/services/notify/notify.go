// Package notify renders account emails and hands them to a Sender.
package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Kind string

const (
	KindVerification     Kind = "verification"
	KindPasswordReset    Kind = "password_reset"
	KindAccountApproved  Kind = "account_approved"
	KindAccountSuspended Kind = "account_suspended"
	KindAccountBanned    Kind = "account_banned"
)

// Data keys understood by the templates.
const (
	DataToken  = "token"
	DataReason = "reason"
)

type Recipient struct {
	Email string
	Name  string
}

// Notifier delivers a templated notification to one recipient.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, to Recipient, data map[string]string) error
}

type Message struct {
	To      Recipient
	Subject string
	Text    string
	HTML    string
}

// Sender is an email transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Mailer struct {
	sender      Sender
	frontendURL string
	logger      *zap.Logger
	sent        *prometheus.CounterVec
}

// NewMailer builds a Notifier over sender. sent may be nil; when set it is
// incremented with labels kind and result.
func NewMailer(sender Sender, frontendURL string, logger *zap.Logger, sent *prometheus.CounterVec) *Mailer {
	return &Mailer{
		sender:      sender,
		frontendURL: frontendURL,
		logger:      logger.Named("Mailer"),
		sent:        sent,
	}
}

func (m *Mailer) Notify(ctx context.Context, kind Kind, to Recipient, data map[string]string) error {
	msg, err := m.Render(kind, to, data)
	if err != nil {
		return err
	}

	err = m.sender.Send(ctx, msg)
	m.observe(kind, err)
	if err != nil {
		m.logger.Error("Failed to send email", zap.String("kind", string(kind)), zap.String("toEmail", to.Email), zap.Error(err))
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	m.logger.Info("Email sent", zap.String("kind", string(kind)), zap.String("toEmail", to.Email))
	return nil
}

// Render builds the message for kind without sending it.
func (m *Mailer) Render(kind Kind, to Recipient, data map[string]string) (Message, error) {
	tpl, ok := templates[kind]
	if !ok {
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}

	view := templateData{
		Name:     to.Name,
		Reason:   data[DataReason],
		LoginURL: m.frontendURL + "/login",
	}
	switch kind {
	case KindVerification:
		view.URL = m.frontendURL + "/verify-email?token=" + url.QueryEscape(data[DataToken])
	case KindPasswordReset:
		view.URL = m.frontendURL + "/reset-password?token=" + url.QueryEscape(data[DataToken])
	}

	text, html, err := tpl.render(view)
	if err != nil {
		return Message{}, fmt.Errorf("render %s email: %w", kind, err)
	}
	return Message{To: to, Subject: tpl.subject, Text: text, HTML: html}, nil
}

func (m *Mailer) observe(kind Kind, err error) {
	if m.sent == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sent.WithLabelValues(string(kind), result).Inc()
}
