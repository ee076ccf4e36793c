package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LotMonitor/pkg/config"
)

// TwilioSender posts messages through the Twilio Messaging REST API
// (form-encoded, basic auth). WhatsApp recipients use the "whatsapp:+N"
// address form.
type TwilioSender struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string
	HttpClient *http.Client
}

// NewTwilioSender creates a sender for the configured Twilio account.
func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	return &TwilioSender{
		AccountSID: cfg.AccountSID,
		AuthToken:  cfg.AuthToken,
		From:       cfg.From,
		BaseURL:    "https://api.twilio.com",
		HttpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send delivers one message, blocking until Twilio accepts or rejects it.
func (t *TwilioSender) Send(ctx context.Context, msg Message) error {
	form := url.Values{}
	form.Set("Body", msg.Body)
	form.Set("From", t.From)
	form.Set("To", msg.To)
	if msg.MediaURL != "" {
		form.Set("MediaUrl", msg.MediaURL)
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.BaseURL, t.AccountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(t.AccountSID, t.AuthToken)

	resp, err := t.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio returned %s: %s", resp.Status, string(bodyBytes))
	}
	return nil
}
