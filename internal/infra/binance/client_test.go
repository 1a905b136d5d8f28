package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

const twoBars = `[
 [1700000000000,"36000.10","36100.00","35900.50","36050.00","12.5",1700000059999,"0",10,"0","0","0"],
 [1700000060000,"36050.00","36060.00","36000.00","36010.00","3.1",1700000119999,"0",4,"0","0","0"]
]`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.BinanceConfig{BaseURL: srv.URL, Timeout: time.Second})
}

func TestGetRange_ParsesBars(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api/v3/klines" || q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1m" ||
			q.Get("startTime") != "100" || q.Get("endTime") != "200" || q.Get("limit") != "1000" {
			t.Errorf("url = %s", r.URL)
		}
		_, _ = w.Write([]byte(twoBars))
	})

	got, err := c.GetRange(context.Background(), "btc", 100, 200, domain.IntervalMinute)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].OpenTime != 1700000000000 || got[0].Open != "36000.10" || got[0].Close != "36050.00" || got[0].CloseTime != 1700000059999 {
		t.Fatalf("bar = %+v", got[0])
	}
}

// Котируемая валюта: запрос уходит на BTCUSDT, OHLC ровно "1.0"
func TestGetRange_SyntheticQuote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if s := r.URL.Query().Get("symbol"); s != "BTCUSDT" {
			t.Errorf("symbol = %q", s)
		}
		_, _ = w.Write([]byte(twoBars))
	})

	got, err := c.GetRange(context.Background(), "usdt", 0, 1, domain.IntervalDay)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, k := range got {
		if k.Open != "1.0" || k.High != "1.0" || k.Low != "1.0" || k.Close != "1.0" {
			t.Fatalf("bar = %+v", k)
		}
	}
}

func TestGetRange_MalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1700000000000,"abc","1","1","1","1",1700000059999]]`))
	})

	_, err := c.GetRange(context.Background(), "eth", 0, 1, domain.IntervalHour)
	if !errors.Is(err, domain.ErrMalformedKline) {
		t.Fatalf("err = %v", err)
	}
}

func TestGetRange_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := c.GetRange(context.Background(), "nope", 0, 1, domain.IntervalHour)
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusBadRequest || he.Body != "Invalid symbol." {
		t.Fatalf("err = %v", err)
	}
}

func TestPair(t *testing.T) {
	c := NewClient(config.BinanceConfig{})
	if p, s := c.Pair(" eth "); p != "ETHUSDT" || s {
		t.Fatalf("eth -> %s %v", p, s)
	}
	if p, s := c.Pair("USDT"); p != "BTCUSDT" || !s {
		t.Fatalf("usdt -> %s %v", p, s)
	}
}

// Котируемая валюта из конфига приводится к верхнему регистру
func TestPair_LowercaseQuote(t *testing.T) {
	c := NewClient(config.BinanceConfig{Quote: " usdt "})
	if p, s := c.Pair("btc"); p != "BTCUSDT" || s {
		t.Fatalf("btc -> %s %v", p, s)
	}
	if p, s := c.Pair("usdt"); p != "BTCUSDT" || !s {
		t.Fatalf("usdt -> %s %v", p, s)
	}
}
