package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"wickscan/internal/market"
)

const bybitKlinePath = "/v5/market/kline"

// BybitOptions parameterise the Bybit v5 kline fetcher.
type BybitOptions struct {
	BaseURL        string
	Category       string
	Timeout        time.Duration
	UserAgent      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Bybit fetches spot klines from the Bybit v5 public API.
type Bybit struct {
	opts    BybitOptions
	logger  zerolog.Logger
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

// NewBybit constructs a Bybit kline fetcher.
func NewBybit(opts BybitOptions, logger zerolog.Logger) *Bybit {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.bybit.com"
	}

	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 5
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &Bybit{
		opts:    opts,
		logger:  logger.With().Str("component", "bybit_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		baseURL: baseURL,
	}
}

// FetchCandles retrieves one page of klines at or after since.
func (b *Bybit) FetchCandles(ctx context.Context, symbol, timeframe string, since time.Time, limit int) ([]market.Candle, error) {
	interval, err := bybitInterval(timeframe)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errors.New("limit must be greater than zero")
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	category := b.opts.Category
	if category == "" {
		category = "spot"
	}

	query := url.Values{}
	query.Set("category", category)
	query.Set("symbol", strings.ReplaceAll(symbol, "/", ""))
	query.Set("interval", interval)
	query.Set("start", strconv.FormatInt(since.UnixMilli(), 10))
	query.Set("limit", strconv.Itoa(limit))

	endpoint := b.baseURL + bybitKlinePath + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(b.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bybit api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var klineRes klineResponse
	if err := json.Unmarshal(payload, &klineRes); err != nil {
		return nil, fmt.Errorf("decode kline response: %w", err)
	}
	if klineRes.RetCode != 0 {
		return nil, fmt.Errorf("bybit api error (%d): %s", klineRes.RetCode, klineRes.RetMsg)
	}

	candles := make([]market.Candle, 0, len(klineRes.Result.List))
	for _, row := range klineRes.Result.List {
		c, err := parseKlineRow(row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}

	// The API returns rows newest first.
	sort.Slice(candles, func(i, j int) bool { return candles[i].TS.Before(candles[j].TS) })

	b.logger.Debug().
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Time("since", since).
		Int("candles", len(candles)).
		Msg("kline page fetched")

	return candles, nil
}

type klineResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string     `json:"category"`
		Symbol   string     `json:"symbol"`
		List     [][]string `json:"list"`
	} `json:"result"`
}

// parseKlineRow decodes one [start, open, high, low, close, volume, turnover]
// row. Prices arrive as decimal strings and are parsed exactly before the
// float conversion.
func parseKlineRow(row []string) (market.Candle, error) {
	if len(row) < 6 {
		return market.Candle{}, fmt.Errorf("kline row has %d fields, want at least 6", len(row))
	}

	ms, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return market.Candle{}, fmt.Errorf("parse kline timestamp: %w", err)
	}

	values := make([]float64, 5)
	for i := 0; i < 5; i++ {
		d, err := decimal.NewFromString(row[i+1])
		if err != nil {
			return market.Candle{}, fmt.Errorf("parse kline field %d: %w", i+1, err)
		}
		values[i] = d.InexactFloat64()
	}

	return market.Candle{
		TS:     time.UnixMilli(ms).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}

// bybitInterval maps a timeframe label onto the Bybit interval parameter:
// minutes for intraday, D/W otherwise.
func bybitInterval(tf string) (string, error) {
	seconds, err := market.TimeframeSeconds(tf)
	if err != nil {
		return "", err
	}

	switch {
	case seconds < 86400:
		return strconv.FormatInt(seconds/60, 10), nil
	case seconds == 86400:
		return "D", nil
	case seconds == 604800:
		return "W", nil
	default:
		return "", fmt.Errorf("timeframe %q not supported by bybit klines", tf)
	}
}

var _ CandleFetcher = (*Bybit)(nil)
