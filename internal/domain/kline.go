package domain

// Kline - один бар исторического ряда.
// Значения OHLC хранятся строками, чтобы не терять точность при отображении.
type Kline struct {
	OpenTime  int64  `json:"open_time"` // epoch ms, начало бара включительно
	Open      string `json:"open"`
	High      string `json:"high"`
	Low       string `json:"low"`
	Close     string `json:"close"`
	CloseTime int64  `json:"close_time"` // epoch ms
}

// SeriesKey - выбор, к которому привязан собранный ряд
type SeriesKey struct {
	Symbol    string   `json:"symbol"`
	StartTime int64    `json:"start_time"`
	Interval  Interval `json:"interval"`
}

// Series - опубликованный ряд для одного выбора
type Series struct {
	Key    SeriesKey `json:"key"`
	Points []Kline   `json:"points"`
}
