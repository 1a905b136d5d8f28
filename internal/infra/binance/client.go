package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

// syntheticPrice - цена котируемой валюты самой в себе
const syntheticPrice = "1.0"

// referencePair - пара, по которой берётся сетка времени для котируемой валюты
const referencePair = "BTC"

// Client - REST клиент исторических баров Binance
type Client struct {
	cfg        config.BinanceConfig
	httpClient *http.Client
}

// HTTPError - провайдер ответил не 200
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("binance: unexpected status %s: %s", e.Status, e.Body)
}

func NewClient(cfg config.BinanceConfig) *Client {
	cfg.Quote = strings.ToUpper(strings.TrimSpace(cfg.Quote))
	if cfg.Quote == "" {
		cfg.Quote = "USDT"
	}
	if cfg.Limit <= 0 || cfg.Limit > 1000 {
		cfg.Limit = 1000
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Pair - торговая пара для символа; synthetic=true, если символ и есть котируемая валюта
func (c *Client) Pair(symbol string) (pair string, synthetic bool) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == c.cfg.Quote {
		return referencePair + c.cfg.Quote, true
	}
	return s + c.cfg.Quote, false
}

// GetRange - бары за [start, end], не больше Limit за вызов
func (c *Client) GetRange(ctx context.Context, symbol string, start, end int64, interval domain.Interval) ([]domain.Kline, error) {
	pair, synthetic := c.Pair(symbol)

	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath("api", "v3", "klines")

	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", string(interval))
	q.Set("startTime", strconv.FormatInt(start, 10))
	q.Set("endTime", strconv.FormatInt(end, 10))
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Msg string `json:"msg"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body.Msg}
	}

	var raw [][]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedKline, err)
	}

	out := make([]domain.Kline, 0, len(raw))
	for i, row := range raw {
		k, err := parseRow(row, synthetic)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, k)
	}
	return out, nil
}

// parseRow - [openTime, open, high, low, close, volume, closeTime, ...]
func parseRow(row []interface{}, synthetic bool) (domain.Kline, error) {
	if len(row) < 7 {
		return domain.Kline{}, fmt.Errorf("%w: %d fields", domain.ErrMalformedKline, len(row))
	}
	openTime, ok := row[0].(float64)
	if !ok {
		return domain.Kline{}, fmt.Errorf("%w: open time %T", domain.ErrMalformedKline, row[0])
	}
	closeTime, ok := row[6].(float64)
	if !ok {
		return domain.Kline{}, fmt.Errorf("%w: close time %T", domain.ErrMalformedKline, row[6])
	}

	k := domain.Kline{OpenTime: int64(openTime), CloseTime: int64(closeTime)}
	if synthetic {
		k.Open, k.High, k.Low, k.Close = syntheticPrice, syntheticPrice, syntheticPrice, syntheticPrice
		return k, nil
	}

	var vals [4]string
	for i := range vals {
		s, ok := row[i+1].(string)
		if !ok {
			return domain.Kline{}, fmt.Errorf("%w: field %d is %T", domain.ErrMalformedKline, i+1, row[i+1])
		}
		if _, err := decimal.NewFromString(s); err != nil {
			return domain.Kline{}, fmt.Errorf("%w: field %d: %v", domain.ErrMalformedKline, i+1, err)
		}
		vals[i] = s
	}
	k.Open, k.High, k.Low, k.Close = vals[0], vals[1], vals[2], vals[3]
	return k, nil
}
