package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.CoinGeckoConfig{BaseURL: srv.URL + "/api/v3", Currency: "USD", Timeout: time.Second})
}

func TestListByPage_QueryAndNulls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/coins/markets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("vs_currency") != "usd" || q.Get("per_page") != "250" || q.Get("page") != "3" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png","current_price":65000.5,"price_change_percentage_24h":-1.25,"last_updated":"2024-05-01T10:00:00.000Z"},
			{"id":"deadcoin","symbol":"dead","name":"Dead","image":"","current_price":null,"price_change_percentage_24h":null,"last_updated":null}
		]`))
	})

	got, err := c.ListByPage(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID != "bitcoin" || got[0].CurrentPrice != 65000.5 || got[0].PriceChangePercentage24h != -1.25 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].CurrentPrice != 0 || got[1].LastUpdated != "" {
		t.Fatalf("nulls must decode as zero values: %+v", got[1])
	}
}

func TestListByIDs_JoinsIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ids := r.URL.Query().Get("ids"); ids != "bitcoin,ethereum" {
			t.Errorf("ids = %q", ids)
		}
		_, _ = w.Write([]byte(`[]`))
	})

	got, err := c.ListByIDs(context.Background(), []string{"bitcoin", "ethereum"})
	if err != nil || len(got) != 0 {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

// Пустой набор id не ходит в сеть
func TestListByIDs_EmptySkipsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL)
	})
	if got, err := c.ListByIDs(context.Background(), nil); err != nil || got != nil {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/search" || r.URL.Query().Get("query") != "eth" {
			t.Errorf("url = %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"coins":[{"id":"ethereum","name":"Ethereum","symbol":"ETH","market_cap_rank":2}],"exchanges":[]}`))
	})

	got, err := c.Search(context.Background(), "eth")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ethereum" {
		t.Fatalf("got = %+v", got)
	}
}

func TestGet_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.ListByNames(context.Background(), []string{"Bitcoin"})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("err = %v", err)
	}
}
