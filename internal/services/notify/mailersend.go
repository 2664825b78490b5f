package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const mailerSendAPIURL = "https://api.mailersend.com/v1/email"

// MailerSendSender sends through the MailerSend HTTP API.
type MailerSendSender struct {
	apiKey    string
	fromEmail string
	fromName  string
	endpoint  string
	client    *http.Client
	logger    *zap.Logger
}

func NewMailerSendSender(apiKey, fromEmail, fromName string, logger *zap.Logger) *MailerSendSender {
	return &MailerSendSender{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		endpoint:  mailerSendAPIURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("MailerSendSender"),
	}
}

type mailerSendRequest struct {
	From    mailerSendAddress   `json:"from"`
	To      []mailerSendAddress `json:"to"`
	Subject string              `json:"subject"`
	Text    string              `json:"text"`
	HTML    string              `json:"html"`
}

type mailerSendAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (s *MailerSendSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(mailerSendRequest{
		From:    mailerSendAddress{Email: s.fromEmail, Name: s.fromName},
		To:      []mailerSendAddress{{Email: msg.To.Email, Name: msg.To.Name}},
		Subject: msg.Subject,
		Text:    msg.Text,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Failed to send request to MailerSend", zap.Error(err))
		return fmt.Errorf("failed to send request to MailerSend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		s.logger.Error("MailerSend API request failed", zap.Int("statusCode", resp.StatusCode))
		return fmt.Errorf("MailerSend API request failed with status code %d", resp.StatusCode)
	}

	s.logger.Debug("MailerSend accepted message", zap.String("messageID", resp.Header.Get("X-Message-Id")))
	return nil
}
