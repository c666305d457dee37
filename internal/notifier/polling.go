package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// pollTimeout is the long-poll wait Telegram holds a getUpdates call open.
const pollTimeout = 30 * time.Second

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) string

type inbound struct {
	updateID int64
	chatID   string
	text     string
}

// StartPolling long-polls Telegram for commands until ctx is cancelled.
// Only messages from the configured chat are handled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	client := &http.Client{Timeout: pollTimeout + 5*time.Second, Transport: t.Client.Transport}
	retry := &backoff.Backoff{Min: time.Second, Max: time.Minute, Factor: 2}
	var offset int64

	defer log.Info("telegram polling stopped")
	for ctx.Err() == nil {
		msgs, err := t.getUpdates(ctx, client, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := retry.Duration()
			log.Warnf("polling request failed: %v, retrying in %v", err, wait)
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			continue
		}
		retry.Reset()

		for _, m := range msgs {
			offset = m.updateID + 1
			t.dispatch(ctx, m, handler)
		}
	}
}

func (t *TelegramNotifier) dispatch(ctx context.Context, m inbound, handler CommandHandler) {
	if m.text == "" {
		return
	}
	if m.chatID != t.ChatID {
		log.WithField("chat", m.chatID).Warn("ignoring command from unknown chat")
		return
	}
	log.WithField("chat", m.chatID).Infof("received command: %s", m.text)
	reply := handler(ctx, m.text)
	if reply == "" {
		return
	}
	if err := t.Send(ctx, reply); err != nil {
		log.Errorf("send reply: %v", err)
	}
}

func (t *TelegramNotifier) getUpdates(ctx context.Context, client *http.Client, offset int64) ([]inbound, error) {
	apiURL := fmt.Sprintf("%s?offset=%d&timeout=%d", t.endpoint("getUpdates"), offset, int(pollTimeout.Seconds()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read polling response: %w", err)
	}
	res := gjson.ParseBytes(body)
	if !res.Get("ok").Bool() {
		return nil, parseAPIError(resp.StatusCode, body)
	}

	updates := res.Get("result").Array()
	msgs := make([]inbound, 0, len(updates))
	for _, u := range updates {
		msgs = append(msgs, inbound{
			updateID: u.Get("update_id").Int(),
			chatID:   strconv.FormatInt(u.Get("message.chat.id").Int(), 10),
			text:     strings.TrimSpace(u.Get("message.text").String()),
		})
	}
	return msgs, nil
}
