package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/config"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

// Client - клиент рыночного API CoinGecko v3
type Client struct {
	cfg        config.CoinGeckoConfig
	httpClient *http.Client
}

// HTTPError - провайдер ответил не 200
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return "coingecko: unexpected status " + e.Status
}

// marketRow - строка ответа /coins/markets; числовые поля бывают null
type marketRow struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	Image                    string   `json:"image"`
	CurrentPrice             *float64 `json:"current_price"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	LastUpdated              string   `json:"last_updated"`
}

type searchResponse struct {
	Coins []domain.Candidate `json:"coins"`
}

// NewClient - создаёт клиента для работы с API CoinGecko
func NewClient(cfg config.CoinGeckoConfig) *Client {
	if cfg.PerPage <= 0 {
		cfg.PerPage = 250
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ListByPage - страница рейтинга по капитализации
func (c *Client) ListByPage(ctx context.Context, page int) ([]domain.Asset, error) {
	q := url.Values{}
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	q.Set("page", strconv.Itoa(page))
	return c.markets(ctx, q)
}

// ListByIDs - полные записи для набора id
func (c *Client) ListByIDs(ctx context.Context, ids []string) ([]domain.Asset, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	return c.markets(ctx, q)
}

// ListByNames - поиск записей по именам (для привязки id к лидерборду)
func (c *Client) ListByNames(ctx context.Context, names []string) ([]domain.Asset, error) {
	if len(names) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("names", strings.Join(names, ","))
	return c.markets(ctx, q)
}

// Search - свободный текстовый поиск
func (c *Client) Search(ctx context.Context, query string) ([]domain.Candidate, error) {
	q := url.Values{}
	q.Set("query", query)

	var resp searchResponse
	if err := c.get(ctx, q, &resp, "search"); err != nil {
		return nil, err
	}
	return resp.Coins, nil
}

func (c *Client) markets(ctx context.Context, q url.Values) ([]domain.Asset, error) {
	q.Set("vs_currency", strings.ToLower(c.cfg.Currency))

	var rows []marketRow
	if err := c.get(ctx, q, &rows, "coins", "markets"); err != nil {
		return nil, err
	}

	result := make([]domain.Asset, 0, len(rows))
	for _, r := range rows {
		a := domain.Asset{
			ID:          r.ID,
			Name:        r.Name,
			Symbol:      r.Symbol,
			Image:       r.Image,
			LastUpdated: r.LastUpdated,
		}
		if r.CurrentPrice != nil {
			a.CurrentPrice = *r.CurrentPrice
		}
		if r.PriceChangePercentage24h != nil {
			a.PriceChangePercentage24h = *r.PriceChangePercentage24h
		}
		result = append(result, a)
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, q url.Values, out any, path ...string) error {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath(path...)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	ua := c.cfg.UserAgent
	if ua == "" {
		ua = "crypto-market-service/1.0"
	}
	req.Header.Set("User-Agent", ua)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
