package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/errors"
	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
)

const telegramSendRetries = 3

// TelegramNotifier sends alerts through the Telegram Bot API.
type TelegramNotifier struct {
	token  string
	chatID string
	symbol string
	client *http.Client
	log    zerolog.Logger
}

// NewTelegramNotifier builds a notifier for the given bot token and
// chat.
func NewTelegramNotifier(token, chatID, symbol string, log zerolog.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		token:  token,
		chatID: chatID,
		symbol: symbol,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// NotifySignal formats and sends a signal alert.
func (t *TelegramNotifier) NotifySignal(sig *signal.Signal) error {
	return t.NotifyText(FormatSignal(t.symbol, sig))
}

// NotifyText sends a Markdown message, retrying transient failures
// with backoff.
func (t *TelegramNotifier) NotifyText(text string) error {
	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.token)
	payload, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return errors.WrapNotifyError("telegram", err)
	}

	var lastErr error
	for attempt := 1; attempt <= telegramSendRetries; attempt++ {
		resp, err := t.client.Post(url, "application/json", bytes.NewReader(payload))
		if err == nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			lastErr = fmt.Errorf("telegram responded %d: %s", resp.StatusCode, body)
		} else {
			lastErr = err
		}

		t.log.Warn().Int("attempt", attempt).Err(lastErr).Msg("telegram send failed")
		if attempt < telegramSendRetries {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return errors.WrapNotifyError("telegram", lastErr)
}
