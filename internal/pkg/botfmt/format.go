package botfmt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

// FormatAssetLine - одна строка списка: символ, имя, цена, изменение за 24ч
func FormatAssetLine(a domain.Asset) string {
	return fmt.Sprintf("%s %s | $%s | %+.2f%%",
		strings.ToUpper(a.Symbol),
		a.Name,
		HumanPrice(a.CurrentPrice),
		a.PriceChangePercentage24h,
	)
}

// FormatAssetList - заголовок и нумерованный список, не длиннее limit (0 - без ограничения)
func FormatAssetList(title string, items []domain.Asset, limit int) string {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	var b strings.Builder
	b.WriteString(title)
	for i, a := range items {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, FormatAssetLine(a)))
	}
	return b.String()
}

// HumanPrice - два знака для цен от 1, для мелких до 8 значащих после запятой
func HumanPrice(v float64) string {
	d := decimal.NewFromFloat(v)
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1)) || d.IsZero() {
		return d.StringFixed(2)
	}
	return d.Round(8).String()
}
