package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-service/pkg/config"

	"go.uber.org/zap"
)

// WhatsAppClient talks to the WhatsApp Cloud API messages endpoint
type WhatsAppClient struct {
	BaseURL    string
	Token      string
	PhoneID    string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type textBody struct {
	Body string `json:"body"`
}

type messageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// ErrorResponse is the error envelope returned by the Graph API
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NewWhatsAppClient creates a client from configuration
func NewWhatsAppClient(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		Token:      cfg.Token,
		PhoneID:    cfg.PhoneID,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     logger,
	}
}

// Simulated reports whether messages are only logged
func (c *WhatsAppClient) Simulated() bool {
	return c.Token == "" || c.PhoneID == ""
}

// Send posts message to the given number. Without credentials, or without a
// destination, the message is logged and reported as delivered.
func (c *WhatsAppClient) Send(ctx context.Context, to, message string) error {
	if c.Simulated() || to == "" {
		c.Logger.Info("WhatsApp not configured, message simulated",
			zap.String("to", to),
			zap.String("message", message))
		return nil
	}

	payload, err := json.Marshal(messageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: message},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Error("WhatsApp request failed", zap.String("to", to), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil || errorResp.Error.Message == "" {
			return fmt.Errorf("whatsapp send failed: %d %s", resp.StatusCode, string(body))
		}
		return errors.New("whatsapp send failed: " + errorResp.Error.Message)
	}

	c.Logger.Info("WhatsApp message sent", zap.String("to", to))
	return nil
}
