package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sidekick/app/config"

	"github.com/samber/do"
)

const sendTimeout = 30 * time.Second

// Sender is the outbound side of the relay: one reply, one recipient.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

var _ Sender = (*Client)(nil)

// Client talks to the WhatsApp Cloud API send-message endpoint.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

func NewClient(di *do.Injector) (*Client, error) {
	return &Client{
		cfg: do.MustInvoke[*config.Config](di),
		httpClient: &http.Client{
			Timeout: sendTimeout,
		},
	}, nil
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Text:             textBody{Body: body},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal send request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.cfg.WhatsApp.APIBaseURL, c.cfg.WhatsApp.PhoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.WhatsApp.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send message returned status %d: %s", resp.StatusCode, snippet)
	}

	return nil
}
