package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"wickscan/internal/analysis"
)

// Notification carries the standout combination of one sweep run.
type Notification struct {
	RunAt         time.Time
	Summary       analysis.Summary
	MinWinRate    decimal.Decimal
	MinEvents     int
	AdditionalMsg string
}

// Notifier delivers sweep notifications.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier pushes messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls the sendMessage API with a rendered text message.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    renderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	s := note.Summary
	n.logger.Info().
		Str("symbol", s.Symbol).
		Str("timeframe", s.Timeframe).
		Str("ma_type", string(s.MAType)).
		Int("period", s.Period).
		Msg("alert dispatched (Telegram)")
	return nil
}

func renderMessage(note Notification) string {
	s := note.Summary
	builder := strings.Builder{}
	builder.WriteString("[wickscan bounce alert]\n")
	builder.WriteString(fmt.Sprintf("Run: %s UTC\n", note.RunAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Combination: %s %s %s_%d\n", s.Symbol, s.Timeframe, s.MAType, s.Period))
	builder.WriteString(fmt.Sprintf("Win rate: %s%% (threshold %s%%)\n",
		decimal.NewFromFloat(s.WinRate).StringFixed(2), note.MinWinRate.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("Events: %d (%d wins / %d losses, min %d)\n", s.TotalEvents, s.Wins, s.Losses, note.MinEvents))
	if s.AvgTimeToTarget != nil {
		builder.WriteString(fmt.Sprintf("Avg time to target: %.2f candles\n", *s.AvgTimeToTarget))
	}
	if note.AdditionalMsg != "" {
		builder.WriteString(note.AdditionalMsg)
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
