package smsgateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/selotroca/selotroca-backend/internal/config"
	"golang.org/x/exp/slog"
)

// Gateway represents an SMS gateway interface
type Gateway interface {
	SendSMS(phone, message string) (string, error)
	GetDeliveryStatus(messageID string) (string, error)
}

// NewGateway creates the gateway named by the configuration. Unknown
// provider names fall back to the mock gateway so a misconfigured
// deployment degrades loudly in logs rather than panicking.
func NewGateway(cfg *config.Config) Gateway {
	switch cfg.SMS.Provider {
	case "twilio":
		return NewTwilioGateway(cfg)
	case "mock":
		return NewMockGateway("SeloTroca")
	default:
		slog.Warn("Unknown SMS provider, falling back to mock", "provider", cfg.SMS.Provider)
		return NewMockGateway("SeloTroca")
	}
}

// TwilioGateway sends SMS through the Twilio Messages REST API
type TwilioGateway struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
	httpClient *http.Client
}

// MockGateway logs messages instead of sending them; used in development
// and tests
type MockGateway struct {
	Name string
}

// NewTwilioGateway creates a new Twilio SMS gateway
func NewTwilioGateway(cfg *config.Config) Gateway {
	return &TwilioGateway{
		AccountSID: cfg.SMS.Twilio.AccountSID,
		AuthToken:  cfg.SMS.Twilio.AuthToken,
		FromNumber: cfg.SMS.Twilio.FromNumber,
		BaseURL:    "https://api.twilio.com/2010-04-01",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewMockGateway creates a new mock SMS gateway
func NewMockGateway(name string) Gateway {
	return &MockGateway{Name: name}
}

// SendSMS sends an SMS using the Twilio gateway. The phone must be in
// international form with a leading plus sign.
func (g *TwilioGateway) SendSMS(phone, message string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.BaseURL, g.AccountSID)

	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", g.FromNumber)
	form.Set("Body", message)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.AccountSID, g.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Sid    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Sid, nil
}

// GetDeliveryStatus gets the delivery status of an SMS from Twilio
func (g *TwilioGateway) GetDeliveryStatus(messageID string) (string, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages/%s.json", g.BaseURL, g.AccountSID, messageID)

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(g.AccountSID, g.AuthToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return response.Status, nil
}

// SendSMS logs the message and returns a synthetic message id
func (g *MockGateway) SendSMS(phone, message string) (string, error) {
	msgID := fmt.Sprintf("%s-MOCK-MSG-%d", g.Name, time.Now().UnixNano())
	slog.Info("Mock SMS", "gateway", g.Name, "phone", phone, "message", message, "messageId", msgID)
	return msgID, nil
}

// GetDeliveryStatus always reports delivered for mock messages
func (g *MockGateway) GetDeliveryStatus(messageID string) (string, error) {
	return "DELIVERED", nil
}
