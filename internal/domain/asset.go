package domain

import "strings"

// Asset - рыночный снимок одной криптовалюты
type Asset struct {
	ID                       string  `json:"id"`                          // стабильный идентификатор провайдера (bitcoin)
	Name                     string  `json:"name"`                        // Bitcoin
	Symbol                   string  `json:"symbol"`                      // btc, BTC
	Image                    string  `json:"image"`                       // URL иконки
	CurrentPrice             float64 `json:"current_price"`               // цена в валюте провайдера (USD)
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"` // изменение за 24ч, может быть отрицательным
	LastUpdated              string  `json:"last_updated"`                // ISO-8601, пусто до проставления свежести
}

// HasID - есть ли у записи стабильный идентификатор
func (a Asset) HasID() bool {
	return strings.TrimSpace(a.ID) != ""
}

// SameEntry - две записи считаются одной, если совпадают непустые ID.
// Записи лидерборда без ID сравниваются по имени.
func (a Asset) SameEntry(b Asset) bool {
	if a.HasID() || b.HasID() {
		return a.HasID() && a.ID == b.ID
	}
	return a.Name == b.Name
}

// IDs - идентификаторы записей в исходном порядке, без пустых и повторов
func IDs(items []Asset) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !it.HasID() {
			continue
		}
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it.ID)
	}
	return out
}
