// Package notify delivers operator SMS alerts for order lifecycle events.
// Delivery is best-effort: failures are logged by the dispatcher and never
// reach the request path.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Message is one SMS to dispatch. ID correlates log lines for a single
// delivery attempt.
type Message struct {
	ID   string
	Body string
	To   string
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

const twilioAPI = "https://api.twilio.com"

// TwilioClient sends messages through the Twilio REST API.
type TwilioClient struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string // defaults to the Twilio API; tests point it elsewhere
	HTTP       *http.Client
}

func (c *TwilioClient) Send(ctx context.Context, m Message) error {
	base := c.BaseURL
	if base == "" {
		base = twilioAPI
	}
	form := url.Values{
		"To":   {m.To},
		"From": {c.From},
		"Body": {m.Body},
	}
	endpoint := base + "/2010-04-01/Accounts/" + c.AccountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
