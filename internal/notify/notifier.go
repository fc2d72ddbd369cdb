package notify

import (
	"fmt"
	"strings"

	"github.com/Zelfconnect/bitcoin-trading-signals/internal/signal"
)

// Notifier delivers a signal alert to an external channel.
type Notifier interface {
	NotifySignal(sig *signal.Signal) error
	NotifyText(text string) error
}

// FormatSignal renders a signal as a Markdown alert message.
func FormatSignal(symbol string, sig *signal.Signal) string {
	emoji := "🟢"
	if sig.Direction == signal.Sell {
		emoji = "🔴"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s %s SIGNAL*\n\n", emoji, symbol, sig.Direction)
	fmt.Fprintf(&b, "Quality: *%s* (%s)\n", sig.Quality, sig.Score)
	fmt.Fprintf(&b, "Entry: `%.2f`\n", sig.EntryPrice)
	fmt.Fprintf(&b, "Stop Loss: `%.2f`\n", sig.StopLoss)
	fmt.Fprintf(&b, "Take Profit: `%.2f`\n", sig.TakeProfit)
	fmt.Fprintf(&b, "Position Size: %.1f%% of capital\n", sig.PositionSize*100)
	fmt.Fprintf(&b, "Valid Until: %s\n\n", sig.Expiry.UTC().Format("15:04:05 MST"))

	b.WriteString("*Conditions:*\n")
	for _, cond := range sig.Conditions {
		fmt.Fprintf(&b, "• %s\n", cond)
	}
	return b.String()
}

// FormatBreakerAlert renders the circuit-breaker activation message.
func FormatBreakerAlert(losses int) string {
	return fmt.Sprintf("⚠️ *CIRCUIT BREAKER*\n\n%d consecutive losing signals. Signal generation paused until a winning trade or the next UTC day.", losses)
}

// Multi fans a notification out to several channels, returning the
// first error after attempting all of them.
type Multi []Notifier

func (m Multi) NotifySignal(sig *signal.Signal) error {
	var firstErr error
	for _, n := range m {
		if err := n.NotifySignal(sig); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m Multi) NotifyText(text string) error {
	var firstErr error
	for _, n := range m {
		if err := n.NotifyText(text); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
