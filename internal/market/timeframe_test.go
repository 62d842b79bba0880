package market

import "testing"

func TestTimeframeSeconds(t *testing.T) {
	cases := []struct {
		tf   string
		want int64
	}{
		{"1m", 60},
		{"3m", 180},
		{"15m", 900},
		{"1h", 3600},
		{"4h", 14400},
		{"1d", 86400},
		{"1w", 604800},
	}

	for _, tc := range cases {
		got, err := TimeframeSeconds(tc.tf)
		if err != nil {
			t.Fatalf("TimeframeSeconds(%q): %v", tc.tf, err)
		}
		if got != tc.want {
			t.Fatalf("TimeframeSeconds(%q) = %d, want %d", tc.tf, got, tc.want)
		}
	}
}

func TestTimeframeSecondsInvalid(t *testing.T) {
	for _, tf := range []string{"", "m", "1", "1x", "h1", "0m", "-5m", "1mo"} {
		if _, err := TimeframeSeconds(tf); err == nil {
			t.Fatalf("TimeframeSeconds(%q) should fail", tf)
		}
	}
}

func TestIsIntraday(t *testing.T) {
	cases := []struct {
		tf   string
		want bool
	}{
		{"1m", true},
		{"30m", true},
		{"12h", true},
		{"23h", true},
		{"24h", false},
		{"1d", false},
		{"1w", false},
	}

	for _, tc := range cases {
		got, err := IsIntraday(tc.tf)
		if err != nil {
			t.Fatalf("IsIntraday(%q): %v", tc.tf, err)
		}
		if got != tc.want {
			t.Fatalf("IsIntraday(%q) = %v, want %v", tc.tf, got, tc.want)
		}
	}
}

func TestSeriesValidate(t *testing.T) {
	base := mustCandles(t, [][5]float64{
		{0, 100, 101, 99, 100.5},
		{60, 100.5, 102, 100, 101},
	})

	s := Series{Exchange: "bybit", Symbol: "BTC/USDT", Timeframe: "1m", Candles: base}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid series should pass: %v", err)
	}

	bad := append([]Candle(nil), base...)
	bad[1].TS = bad[0].TS
	if err := (Series{Candles: bad}).Validate(); err == nil {
		t.Fatal("duplicate timestamps should fail validation")
	}

	bad = append([]Candle(nil), base...)
	bad[0].High = bad[0].Low - 1
	if err := (Series{Candles: bad}).Validate(); err == nil {
		t.Fatal("inverted high/low should fail validation")
	}
}
