package domain

// Movers - лидеры роста и падения за 24ч, в порядке страницы
type Movers struct {
	Gainers []Asset `json:"gainers"`
	Losers  []Asset `json:"losers"`
}

// Candidate - совпадение текстового поиска, без цены
type Candidate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// SearchResults - опубликованный результат поиска
type SearchResults struct {
	Query  string  `json:"query"`
	Assets []Asset `json:"assets"`
}
