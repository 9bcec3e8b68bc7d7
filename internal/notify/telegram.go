// Package notify sends chat notifications through the Telegram Bot API.
// Delivery is best-effort: failures are reported to the caller, which is
// expected to log and move on, never to fail the triggering operation.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram posts messages to a fixed chat via the Bot API. A zero token
// or chat id disables the client: Send becomes a no-op so the rest of the
// application never has to special-case missing configuration.
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	client  *http.Client
}

// NewTelegram builds a client for the given bot token and chat id.  Either
// value may be empty, in which case the client is disabled.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramWithBase is NewTelegram with an overridable API base URL.
// Tests point it at a local httptest server.
func NewTelegramWithBase(token, chatID, apiBase string) *Telegram {
	t := NewTelegram(token, chatID)
	t.apiBase = apiBase
	return t
}

// Enabled reports whether the client has enough configuration to send.
func (t *Telegram) Enabled() bool { return t != nil && t.token != "" && t.chatID != "" }

// Send posts one HTML-formatted message to the configured chat.  Disabled
// clients return nil immediately.
func (t *Telegram) Send(ctx context.Context, html string) error {
	if !t.Enabled() {
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       html,
		"parse_mode": "HTML",
	})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram: sendMessage returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
