package brevo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const apiURL = "https://api.brevo.com/v3/smtp/email"

// Client talks to the Brevo transactional email API. Calls go through a
// circuit breaker so a provider outage fails fast instead of tying up
// request handlers.
type Client struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	configured bool
}

func NewClient(apiKey, fromEmail, fromName string) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "brevo",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

func (c *Client) IsConfigured() bool { return c.configured }

type attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
	Attachment  []attachment        `json:"attachment,omitempty"`
}

// SendEmail sends a plain HTML email.
func (c *Client) SendEmail(ctx context.Context, toEmail, subject, html string) error {
	return c.send(ctx, toEmail, subject, html, nil)
}

// SendEmailWithAttachment attaches a single file (base64-encoded inline).
func (c *Client) SendEmailWithAttachment(ctx context.Context, toEmail, subject, html, filename string, content []byte) error {
	atts := []attachment{{
		Name:    filename,
		Content: base64.StdEncoding.EncodeToString(content),
	}}
	return c.send(ctx, toEmail, subject, html, atts)
}

func (c *Client) send(ctx context.Context, toEmail, subject, html string, atts []attachment) error {
	if !c.configured {
		return fmt.Errorf("brevo client not configured, email to %s skipped", toEmail)
	}
	if toEmail == "" || subject == "" || html == "" {
		return errors.New("toEmail, subject, and html content cannot be empty")
	}

	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: html,
		Attachment:  atts,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("api-key", c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("brevo request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			var errorBody map[string]interface{}
			if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
				return nil, fmt.Errorf("brevo API error: status %d", resp.StatusCode)
			}
			return nil, fmt.Errorf("brevo API error: status %d, body: %v", resp.StatusCode, errorBody)
		}
		return nil, nil
	})
	return err
}
