package history

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/clock"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/observable"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
)

//go:generate mockgen -source=history_service.go -destination=mocks/mocks.go -package=mocks

// barsPerChunk - максимум баров провайдера за один запрос
const barsPerChunk = 1000

type Service interface {
	// Load - собирает ряд symbol с start (epoch ms) до текущей секунды и публикует его целиком
	Load(ctx context.Context, symbol string, start int64, interval domain.Interval) error

	Series() domain.Series
	Loading() bool
	Subscribe(fn func(domain.Series)) (unsubscribe func())
}

type Provider interface {
	GetRange(ctx context.Context, symbol string, start, end int64, interval domain.Interval) ([]domain.Kline, error)
}

// Chunk - один запрос к провайдеру, границы в epoch ms включительно
type Chunk struct {
	Start int64
	End   int64
}

type service struct {
	provider Provider
	exec     *retry.Executor
	clock    clock.Clock
	logger   *slog.Logger

	mu      sync.Mutex
	series  *observable.Cell[domain.Series]
	loading *observable.Flag
}

func NewService(provider Provider, exec *retry.Executor, logger *slog.Logger) Service {
	return NewServiceWithClock(provider, exec, clock.NewRealClock(), logger)
}

// NewServiceWithClock - Конструктор для тестов: позволяет подставить фиксированные "часы".
func NewServiceWithClock(provider Provider, exec *retry.Executor, clk clock.Clock, logger *slog.Logger) Service {
	return &service{
		provider: provider,
		exec:     exec,
		clock:    clk,
		logger:   logger,
		series:   observable.NewCell(domain.Series{Points: []domain.Kline{}}),
		loading:  observable.NewFlag(),
	}
}

// PlanChunks - делит [start, end] на куски по barsPerChunk баров, от новых к старым.
// Начало последнего куска сдвинуто на один бар раньше start.
func PlanChunks(start, end int64, interval domain.Interval) []Chunk {
	bar := interval.BarMillis()
	if end <= start {
		return nil
	}
	bars := (end - start) / bar
	count := (bars + barsPerChunk - 1) / barsPerChunk

	span := bar * barsPerChunk
	chunks := make([]Chunk, 0, count)
	for i := int64(0); i < count; i++ {
		c := Chunk{
			Start: end - (i+1)*span,
			End:   end - i*span,
		}
		if i == count-1 {
			c.Start = start - bar
		}
		chunks = append(chunks, c)
	}
	return chunks
}

func (s *service) Load(ctx context.Context, symbol string, start int64, interval domain.Interval) error {
	if !interval.Valid() {
		return domain.ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	release := s.loading.Hold()
	defer release()

	end := s.clock.Now().UnixMilli() / 1000 * 1000
	chunks := PlanChunks(start, end, interval)

	points := make(map[int64]domain.Kline)
	failed := 0
	for i, c := range chunks {
		res := retry.Do(ctx, s.exec, "klines", func(ctx context.Context) ([]domain.Kline, error) {
			bars, err := s.provider.GetRange(ctx, symbol, c.Start, c.End, interval)
			if errors.Is(err, domain.ErrMalformedKline) {
				return nil, retry.Permanent(err)
			}
			return bars, err
		})
		if err := ctx.Err(); err != nil {
			return err
		}
		if !res.OK() {
			failed++
			s.logger.Warn("chunk skipped",
				slog.String("symbol", symbol),
				slog.Int("chunk", i),
				slog.Int64("start", c.Start),
				slog.Int64("end", c.End),
				slog.String("outcome", res.Outcome.String()))
			continue
		}
		for _, k := range res.Value {
			if _, dup := points[k.OpenTime]; !dup {
				points[k.OpenTime] = k
			}
		}
	}

	if len(chunks) > 0 && failed == len(chunks) {
		s.logger.Warn("history not loaded, series unchanged",
			slog.String("symbol", symbol),
			slog.Int("chunks", len(chunks)))
		return retry.ErrExhausted
	}

	ordered := make([]domain.Kline, 0, len(points))
	for _, k := range points {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OpenTime < ordered[j].OpenTime })

	s.series.Set(domain.Series{
		Key:    domain.SeriesKey{Symbol: symbol, StartTime: start, Interval: interval},
		Points: ordered,
	})
	s.logger.Info("history loaded",
		slog.String("symbol", symbol),
		slog.String("interval", string(interval)),
		slog.Int("chunks", len(chunks)),
		slog.Int("skipped", failed),
		slog.Int("points", len(ordered)))
	return nil
}

func (s *service) Series() domain.Series { return s.series.Get() }

func (s *service) Loading() bool { return s.loading.Get() }

func (s *service) Subscribe(fn func(domain.Series)) func() { return s.series.Subscribe(fn) }
