package leaderboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

const (
	priceCell  = 3
	changeCell = 5
)

// Scraper - загружает и разбирает HTML страницы gainers/losers
type Scraper struct {
	url       string
	userAgent string
	client    *http.Client
	log       *slog.Logger
}

func NewScraper(url, userAgent string, timeout time.Duration, log *slog.Logger) *Scraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		url:       url,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Fetch - скачивает документ и разбирает обе таблицы
func (s *Scraper) Fetch(ctx context.Context) (domain.Movers, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return domain.Movers{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Movers{}, fmt.Errorf("fetching leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Movers{}, fmt.Errorf("leaderboard returned %s", resp.Status)
	}
	return s.Parse(resp.Body)
}

// Parse - первая tbody это лидеры роста, вторая лидеры падения.
// Строки, которые не удалось разобрать, пропускаются.
func (s *Scraper) Parse(r io.Reader) (domain.Movers, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.Movers{}, fmt.Errorf("parsing html: %w", err)
	}

	bodies := doc.Find("tbody")
	if bodies.Length() < 2 {
		return domain.Movers{}, fmt.Errorf("%w: %d table bodies", domain.ErrLeaderboardShape, bodies.Length())
	}

	return domain.Movers{
		Gainers: s.parseRows(bodies.Eq(0), "gainers"),
		Losers:  s.parseRows(bodies.Eq(1), "losers"),
	}, nil
}

func (s *Scraper) parseRows(body *goquery.Selection, section string) []domain.Asset {
	var out []domain.Asset
	body.Find("tr").Each(func(i int, row *goquery.Selection) {
		a, err := parseRow(row)
		if err != nil {
			if s.log != nil {
				s.log.Warn("skip leaderboard row",
					slog.String("section", section),
					slog.Int("row", i),
					slog.String("err", err.Error()))
			}
			return
		}
		out = append(out, a)
	})
	return out
}

func parseRow(row *goquery.Selection) (domain.Asset, error) {
	link := row.Find("a")
	symbol := joinedText(link.Find("div > div > div"))
	label := joinedText(link.Find("div > div"))
	if symbol == "" || label == "" {
		return domain.Asset{}, fmt.Errorf("%w: missing name or symbol", domain.ErrLeaderboardShape)
	}

	cells := row.Find("td")
	if cells.Length() <= changeCell {
		return domain.Asset{}, fmt.Errorf("%w: %d cells", domain.ErrLeaderboardShape, cells.Length())
	}

	price, err := parseNumber(afterFirst(cells.Eq(priceCell).Text(), "$"))
	if err != nil {
		return domain.Asset{}, fmt.Errorf("price: %w", err)
	}
	change, err := parseNumber(beforeFirst(cells.Eq(changeCell).Text(), "%"))
	if err != nil {
		return domain.Asset{}, fmt.Errorf("change: %w", err)
	}

	src, _ := row.Find("img").First().Attr("src")

	return domain.Asset{
		Name:                     nameFromLabel(label, symbol),
		Symbol:                   symbol,
		Image:                    beforeFirst(src, "?"),
		CurrentPrice:             price,
		PriceChangePercentage24h: change,
	}, nil
}

// nameFromLabel - в подписи символ повторяется дважды: "Bitcoin BTC BTC"
func nameFromLabel(label, symbol string) string {
	suffix := symbol + " " + symbol
	if i := strings.LastIndex(label, suffix); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}

// joinedText - текст каждого элемента с нормализованными пробелами, через пробел
func joinedText(sel *goquery.Selection) string {
	parts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, el *goquery.Selection) {
		if t := strings.Join(strings.Fields(el.Text()), " "); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

func parseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

func afterFirst(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[i+len(sep):]
	}
	return s
}

func beforeFirst(s, sep string) string {
	if i := strings.Index(s, sep); i >= 0 {
		return s[:i]
	}
	return s
}
