package domain

import (
	"strings"
	"time"
)

// Interval - гранулярность баров провайдера истории
type Interval string

const (
	IntervalMinute Interval = "1m"
	IntervalHour   Interval = "1h"
	IntervalDay    Interval = "1d"
)

// ParseInterval - разбирает строку интервала (1m/1h/1d)
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case IntervalMinute:
		return IntervalMinute, nil
	case IntervalHour:
		return IntervalHour, nil
	case IntervalDay:
		return IntervalDay, nil
	default:
		return "", ErrInvalidInterval
	}
}

// Valid - интервал из поддерживаемого набора
func (i Interval) Valid() bool {
	_, err := ParseInterval(string(i))
	return err == nil
}

// BarMillis - длительность бара в миллисекундах; для неизвестного интервала 1
func (i Interval) BarMillis() int64 {
	switch i {
	case IntervalMinute:
		return 60 * 1000
	case IntervalHour:
		return 60 * 60 * 1000
	case IntervalDay:
		return 24 * 60 * 60 * 1000
	default:
		return 1
	}
}

// Range - пресет периода графика (24H/1W/1M/6M/1Y/5Y)
type Range struct {
	Label    string
	Interval Interval
	Lookback time.Duration
}

const day = 24 * time.Hour

var ranges = []Range{
	{Label: "24H", Interval: IntervalMinute, Lookback: day},
	{Label: "1W", Interval: IntervalHour, Lookback: 7 * day},
	{Label: "1M", Interval: IntervalDay, Lookback: 30 * day},
	{Label: "6M", Interval: IntervalDay, Lookback: 6 * 30 * day},
	{Label: "1Y", Interval: IntervalDay, Lookback: 365 * day},
	{Label: "5Y", Interval: IntervalDay, Lookback: 5 * 365 * day},
}

// DefaultRange - период, который открывается по умолчанию
var DefaultRange = ranges[0]

// ParseRange - пресет по метке, регистр не важен
func ParseRange(label string) (Range, error) {
	l := strings.ToUpper(strings.TrimSpace(label))
	if l == "" {
		return DefaultRange, nil
	}
	for _, r := range ranges {
		if r.Label == l {
			return r, nil
		}
	}
	return Range{}, ErrInvalidRange
}

// Ranges - все пресеты в порядке отображения
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}

// Start - начало периода в epoch ms относительно now
func (r Range) Start(now time.Time) int64 {
	return now.Add(-r.Lookback).UnixMilli()
}
