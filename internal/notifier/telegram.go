package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	ChatID   string
	Client   *http.Client
	BaseURL  string
	// RetryMin and RetryMax bound the delay between send attempts.
	RetryMin time.Duration
	RetryMax time.Duration
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL:  telegramAPI,
		RetryMin: time.Second,
		RetryMax: 30 * time.Second,
	}
}

func (t *TelegramNotifier) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, method)
}

// APIError is a non-OK reply from the Bot API.
type APIError struct {
	Status      int
	Description string
	// RetryAfter is set when Telegram rate-limits the bot.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: status %d: %s", e.Status, e.Description)
}

func parseAPIError(status int, body []byte) *APIError {
	res := gjson.ParseBytes(body)
	e := &APIError{Status: status, Description: res.Get("description").String()}
	if e.Description == "" {
		e.Description = http.StatusText(status)
	}
	if secs := res.Get("parameters.retry_after").Int(); secs > 0 {
		e.RetryAfter = time.Duration(secs) * time.Second
	}
	return e
}

// Send sends an HTML message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id":                  t.ChatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return parseAPIError(resp.StatusCode, respBody)
}

// SendWithRetry sends a message, retrying with exponential backoff. A
// rate-limit reply waits at least the delay Telegram asks for.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	b := &backoff.Backoff{Min: t.RetryMin, Max: t.RetryMax, Factor: 2, Jitter: true}
	var lastErr error
	for attempt := 1; attempt <= maxRetries+1; attempt++ {
		if lastErr = t.Send(ctx, text); lastErr == nil {
			return nil
		}
		if attempt > maxRetries {
			break
		}

		wait := b.Duration()
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) {
			if apiErr.Status == http.StatusBadRequest {
				// Malformed HTML or an unknown chat will not succeed on retry.
				return lastErr
			}
			wait = max(wait, apiErr.RetryAfter)
		}
		log.Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", attempt, maxRetries+1, lastErr, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}
